// Package analyzer runs the architectural gate over a source tree and produces a Report.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/viant/afs"
	"github.com/viant/archgate/analyzer/layer"
	"github.com/viant/archgate/analyzer/rule"
	"github.com/viant/archgate/inspector"
	"github.com/viant/archgate/inspector/catalog"
	"github.com/viant/archgate/inspector/info"
	"github.com/viant/archgate/inspector/python"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Analyzer checks every import edge of a source tree against a policy
type Analyzer struct {
	policy  *rule.Policy
	config  *info.Config
	workers int
	logger  *zap.Logger
	fs      afs.Service
}

// moduleResult holds the findings of one module, each worker owns exactly one
type moduleResult struct {
	checked    int
	external   int
	unresolved int
	violations []*Violation
	errors     []*ModuleError
}

// New creates an analyzer
func New(options ...Option) *Analyzer {
	ret := &Analyzer{}
	for _, option := range options {
		option(ret)
	}
	if ret.policy == nil {
		ret.policy = rule.DefaultPolicy()
	}
	if ret.config == nil {
		ret.config = info.DefaultConfig()
	}
	if ret.workers < 1 {
		ret.workers = runtime.NumCPU()
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret
}

// Run analyzes the source root, only discovery and policy errors abort the run
func (a *Analyzer) Run(ctx context.Context, root string) (*Report, error) {
	engine, err := rule.NewEngine(a.policy, nil)
	if err != nil {
		return nil, err
	}
	aCatalog, err := catalog.Build(ctx, root,
		catalog.WithFS(a.fs),
		catalog.WithConfig(a.config),
		catalog.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	namespace := info.NewNamespace(aCatalog.RootPackage, layer.Names()...)
	namespace.Strict = a.config.StrictRootPackage
	factory := inspector.NewFactory(namespace)

	results := make([]*moduleResult, len(aCatalog.Modules))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.workers)
	for i, module := range aCatalog.Modules {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = a.analyzeModule(groupCtx, aCatalog, engine, factory, module)
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		return nil, fmt.Errorf("analysis of %s interrupted: %w", root, err)
	}
	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis of %s interrupted: %w", root, err)
	}

	report := &Report{
		Root:        aCatalog.Root,
		Modules:     len(aCatalog.Modules),
		Violations:  []*Violation{},
		ParseErrors: []*ModuleError{},
	}
	for _, result := range results {
		report.TotalEdgesChecked += result.checked
		report.ExternalEdges += result.external
		report.UnresolvedEdges += result.unresolved
		report.Violations = append(report.Violations, result.violations...)
		report.ParseErrors = append(report.ParseErrors, result.errors...)
	}
	if report.Fingerprint, err = report.fingerprint(aCatalog.Modules); err != nil {
		return nil, fmt.Errorf("failed to fingerprint report: %w", err)
	}
	a.logger.Info("analysis completed",
		zap.String("root", report.Root),
		zap.Int("modules", report.Modules),
		zap.Int("edges", report.TotalEdgesChecked),
		zap.Int("violations", len(report.Violations)),
		zap.Int("parseErrors", len(report.ParseErrors)),
		zap.Bool("passed", report.Passed()))
	return report, nil
}

func (a *Analyzer) analyzeModule(ctx context.Context, aCatalog *catalog.Catalog, engine *rule.Engine, factory *inspector.Factory, module *info.Module) *moduleResult {
	ret := &moduleResult{}
	addError := func(kind ErrorKind, line int, err error) {
		ret.errors = append(ret.errors, &ModuleError{Module: module.ID, Path: module.Path, Line: line, Kind: kind, Message: err.Error()})
	}
	classifier := engine.Classifier()
	source, err := classifier.Classify(module.ID)
	if err != nil {
		addError(KindUnclassifiable, 0, err)
		return ret
	}
	anInspector, err := factory.GetInspector(module.Path)
	if err != nil {
		addError(KindParse, 0, err)
		return ret
	}
	src, err := aCatalog.Read(ctx, module)
	if err != nil {
		addError(KindRead, 0, err)
		return ret
	}
	edges, err := anInspector.Imports(ctx, module, src)
	if err != nil {
		line := 0
		var parseErr *python.ParseError
		if errors.As(err, &parseErr) {
			line = parseErr.Line
		}
		addError(KindParse, line, err)
		return ret
	}
	for edge, err := range edges {
		if err != nil {
			line := 0
			var importErr *python.ImportError
			if errors.As(err, &importErr) {
				line = importErr.Line
			}
			addError(KindImport, line, err)
			continue
		}
		if edge.External {
			ret.external++
			continue
		}
		ret.checked++
		if !aCatalog.Contains(edge.Target) {
			ret.unresolved++
		}
		target, err := classifier.Classify(edge.Target)
		if err != nil {
			addError(KindImport, edge.Line, err)
			continue
		}
		verdict := engine.Evaluate(module.ID, edge.Target, source, target)
		if verdict.Permitted {
			continue
		}
		ret.violations = append(ret.violations, &Violation{
			Kind:   ViolationImport,
			Source: module.ID,
			Path:   module.Path,
			Line:   edge.Line,
			Target: edge.Target,
			Raw:    edge.Raw,
			Rule:   verdict.Rule,
			Reason: verdict.Reason,
		})
	}
	if engine.HasExports(module.ID) {
		a.checkDefinitions(ctx, engine, anInspector, module, src, ret)
	}
	a.logger.Debug("module analyzed",
		zap.String("module", module.ID),
		zap.Stringer("class", source),
		zap.Int("edges", ret.checked),
		zap.Int("violations", len(ret.violations)))
	return ret
}

func (a *Analyzer) checkDefinitions(ctx context.Context, engine *rule.Engine, anInspector inspector.Inspector, module *info.Module, src []byte, ret *moduleResult) {
	definitions, err := anInspector.Definitions(ctx, module, src)
	if err != nil {
		ret.errors = append(ret.errors, &ModuleError{Module: module.ID, Path: module.Path, Kind: KindParse, Message: err.Error()})
		return
	}
	for _, verdict := range engine.CheckDefinitions(module.ID, definitions) {
		ret.violations = append(ret.violations, &Violation{
			Kind:   ViolationDefinition,
			Source: module.ID,
			Path:   module.Path,
			Line:   verdict.Definition.Line,
			Target: verdict.Definition.Name,
			Raw:    string(verdict.Definition.Kind),
			Rule:   verdict.Rule,
			Reason: verdict.Reason,
		})
	}
}
