package catalog

import (
	"github.com/viant/afs"
	"github.com/viant/archgate/inspector/info"
	"go.uber.org/zap"
)

type Option func(*options)

type options struct {
	fs     afs.Service
	config *info.Config
	logger *zap.Logger
}

// WithFS sets the storage service used to walk and read the tree
func WithFS(fs afs.Service) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithConfig sets discovery configuration
func WithConfig(config *info.Config) Option {
	return func(o *options) {
		o.config = config
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	ret := &options{}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.config == nil {
		ret.config = info.DefaultConfig()
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	return ret
}
