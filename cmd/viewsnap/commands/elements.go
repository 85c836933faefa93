package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/readiness"
	"github.com/viewsnap/viewsnap/internal/sim"
)

var elementsCmd = &cobra.Command{
	Use:   "elements",
	Short: "List the demo screen's element tree",
	Long: `Elements prints the demo view tree with each element's kind, size and
readiness, the same information the capture pipeline bases its
decisions on.`,
	Example: `  viewsnap elements`,
	RunE:    runElements,
}

func init() {
	rootCmd.AddCommand(elementsCmd)
}

func runElements(cmd *cobra.Command, args []string) error {
	screen := sim.NewDemoScreen()
	defer screen.Teardown()

	validator := readiness.NewValidator(0)

	var walk func(el *element.Element, depth int)
	walk = func(el *element.Element, depth int) {
		status := "ready"
		if ok, reason := validator.Check(el); !ok {
			status = reason
		}
		fmt.Printf("%s%s  kind=%s  %dx%d  %s\n",
			strings.Repeat("  ", depth), el.ID, el.Kind, el.Width, el.Height, status)
		for _, child := range el.Children() {
			walk(child, depth+1)
		}
	}
	walk(screen.Root(), 0)
	return nil
}
