package main

import "github.com/viewsnap/viewsnap/cmd/viewsnap/commands"

func main() {
	commands.Execute()
}
