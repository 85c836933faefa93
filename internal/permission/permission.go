// Package permission is the authorization collaborator consulted before
// a capture persists to a protected location.
package permission

import (
	"path/filepath"
	"strings"
)

// Checker answers whether a target location needs host-level
// authorization and whether that authorization is held.
type Checker interface {
	IsPermissionNeeded(location string) bool
	HasPermission() bool
}

// Static is a fixed policy: locations under the app's own base
// directory never need permission, anything else does, and the grant is
// set at construction. Hosts with a real permission system supply their
// own Checker.
type Static struct {
	baseDir string
	granted bool
}

// NewStatic creates a static policy rooted at baseDir.
func NewStatic(baseDir string, granted bool) *Static {
	return &Static{baseDir: filepath.Clean(baseDir), granted: granted}
}

func (s *Static) IsPermissionNeeded(location string) bool {
	if location == "" {
		return false
	}
	loc := filepath.Clean(location)
	if loc == s.baseDir {
		return false
	}
	return !strings.HasPrefix(loc, s.baseDir+string(filepath.Separator))
}

func (s *Static) HasPermission() bool {
	return s.granted
}
