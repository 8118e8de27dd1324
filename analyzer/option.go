package analyzer

import (
	"github.com/viant/afs"
	"github.com/viant/archgate/analyzer/rule"
	"github.com/viant/archgate/inspector/info"
	"go.uber.org/zap"
)

type Option func(*Analyzer)

// WithPolicy sets the rule policy
func WithPolicy(policy *rule.Policy) Option {
	return func(a *Analyzer) {
		a.policy = policy
	}
}

// WithConfig sets source discovery config
func WithConfig(config *info.Config) Option {
	return func(a *Analyzer) {
		a.config = config
	}
}

// WithWorkers sets the number of modules analyzed concurrently, values below one use the CPU count
func WithWorkers(workers int) Option {
	return func(a *Analyzer) {
		a.workers = workers
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithFS sets the file system service used for discovery and reads
func WithFS(fs afs.Service) Option {
	return func(a *Analyzer) {
		a.fs = fs
	}
}
