package info

import (
	"path"
	"strings"
)

const initModule = "__init__"

// Module represents a single source file of the inspected tree
type Module struct {
	ID        string // Canonical dotted identifier relative to the source root
	Path      string // Slash separated path relative to the source root
	URL       string // Physical location
	IsPackage bool   // Whether the module is a package marker (__init__)
	Hash      uint64 // Content hash, set once the module is read
}

// Package returns the dotted identifier of the package relative imports resolve against
func (m *Module) Package() string {
	if m.IsPackage {
		return m.ID
	}
	if idx := strings.LastIndex(m.ID, "."); idx != -1 {
		return m.ID[:idx]
	}
	return ""
}

// ModuleID maps a relative slash path to a dotted module identifier
func ModuleID(relPath string) (string, bool) {
	ext := path.Ext(relPath)
	modPath := strings.TrimSuffix(relPath, ext)
	modPath = strings.Trim(modPath, "/")
	isPackage := path.Base(modPath) == initModule
	if isPackage {
		modPath = strings.TrimSuffix(strings.TrimSuffix(modPath, initModule), "/")
	}
	return strings.ReplaceAll(modPath, "/", "."), isPackage
}
