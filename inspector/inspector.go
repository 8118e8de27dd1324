package inspector

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	"github.com/viant/archgate/inspector/info"
	"github.com/viant/archgate/inspector/python"
)

// Inspector provides an interface for extracting import edges from source code
type Inspector interface {
	// Imports parses module source and returns its import edges in source order
	Imports(ctx context.Context, module *info.Module, src []byte) (iter.Seq2[info.Import, error], error)
	// Definitions returns top-level functions and classes in source order
	Definitions(ctx context.Context, module *info.Module, src []byte) ([]info.Definition, error)
}

// Factory creates appropriate inspectors based on language
type Factory struct {
	namespace *info.Namespace
}

// NewFactory creates a new inspector factory for the given namespace
func NewFactory(namespace *info.Namespace) *Factory {
	if namespace == nil {
		namespace = info.NewNamespace("")
	}
	return &Factory{namespace: namespace}
}

// GetInspector returns an appropriate inspector based on file extension
func (f *Factory) GetInspector(filename string) (Inspector, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".py", ".pyi":
		return python.NewInspector(f.namespace), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}
