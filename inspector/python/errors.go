package python

import "fmt"

// ParseError reports syntactically invalid source
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
}

// ImportError reports an import statement that cannot be resolved to a target
type ImportError struct {
	Path string
	Line int
	Raw  string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s:%d: import of %s: %v", e.Path, e.Line, e.Raw, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
