package info

// Form describes how an import statement names its target
type Form string

const (
	FormAbsolute Form = "absolute"
	FormRelative Form = "relative"
)

// Import represents a single import edge extracted from a module
type Import struct {
	Source   string // Importing module identifier
	Target   string // Canonical target identifier
	Raw      string // Target as written in the source
	Line     int    // 1-based line of the import statement
	Form     Form
	External bool // Target lies outside the inspected namespace
}
