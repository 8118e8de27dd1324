package info

// DefinitionKind describes a top-level definition
type DefinitionKind string

const (
	DefinitionFunction DefinitionKind = "function"
	DefinitionClass    DefinitionKind = "class"
)

// Definition represents a top-level function or class of a module
type Definition struct {
	Name string
	Kind DefinitionKind
	Line int
}
