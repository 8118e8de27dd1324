package info

import (
	"errors"
	"strings"
)

// ErrBeyondTopLevel is returned when a relative import climbs above the top-level package
var ErrBeyondTopLevel = errors.New("relative import beyond top-level package")

// Namespace describes the identifier space shared by modules of one source root
type Namespace struct {
	RootPackage string          // Package prefix stripped from absolute imports, may be empty
	Strict      bool            // Only root package prefixed imports are internal when RootPackage is set
	layers      map[string]bool // First identifier segments considered internal
}

// NewNamespace creates a namespace for the given root package and top-level layer names
func NewNamespace(rootPackage string, layers ...string) *Namespace {
	ret := &Namespace{RootPackage: rootPackage, layers: make(map[string]bool, len(layers))}
	for _, layer := range layers {
		ret.layers[layer] = true
	}
	return ret
}

// Canonical strips the root package prefix and reports whether target lies inside the namespace.
// Unprefixed targets whose first segment is a layer are internal unless the namespace is strict.
func (n *Namespace) Canonical(target string) (string, bool) {
	if n.RootPackage != "" {
		if target == n.RootPackage {
			return "", false
		}
		trimmed, prefixed := strings.CutPrefix(target, n.RootPackage+".")
		if n.Strict && !prefixed {
			return target, false
		}
		target = trimmed
	}
	head := target
	if idx := strings.Index(target, "."); idx != -1 {
		head = target[:idx]
	}
	return target, n.layers[head]
}

// Resolve computes the absolute dotted target of a relative import
// issued from pkg (the importing module's package) with the given level.
func (n *Namespace) Resolve(pkg string, level int, name string) (string, error) {
	var parts []string
	if n.RootPackage != "" {
		parts = append(parts, n.RootPackage)
	}
	if pkg != "" {
		parts = append(parts, strings.Split(pkg, ".")...)
	}
	up := level - 1
	if up > len(parts) || (up == len(parts) && n.RootPackage != "") {
		return "", ErrBeyondTopLevel
	}
	parts = parts[:len(parts)-up]
	if name != "" {
		parts = append(parts, strings.Split(name, ".")...)
	}
	return strings.Join(parts, "."), nil
}
