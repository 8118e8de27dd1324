package layer

import "fmt"

// UnclassifiableModuleError reports a module outside every layer
type UnclassifiableModuleError struct {
	Module string
	Reason string
}

func (e *UnclassifiableModuleError) Error() string {
	return fmt.Sprintf("module %q is unclassifiable: %s", e.Module, e.Reason)
}
