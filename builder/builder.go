// Package builder drives a generation run: walk the manifest, parse and
// reconcile every method's documentation, render each target, assemble the
// module packages and sweep what the run no longer produces.
//
// A run is a single sequential pass. Fatal errors abort it immediately and
// files written before the failure are left in place.
package builder

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/autobuild/assemble"
	"github.com/teranos/autobuild/config"
	"github.com/teranos/autobuild/doccomment"
	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/logger"
	"github.com/teranos/autobuild/manifest"
	"github.com/teranos/autobuild/mcptool"
	"github.com/teranos/autobuild/reconcile"
	"github.com/teranos/autobuild/render"
	"github.com/teranos/autobuild/walker"
)

// Report summarises a run.
type Report struct {
	RunID    string
	Modules  []string
	Methods  int
	Written  []string
	Removed  []string
	Duration time.Duration

	// Deprecated methods whose artifacts were removed, as module.method.
	Deprecated []string
	// Substituted methods had no return documentation (lenient runs).
	Substituted []string
	// Unresolved descriptor parameters, as module.method.param.
	Unresolved []string

	// Groups holds the rendered methods per module, in walk order.
	Groups []render.Group
}

// Builder renders a manifest into a sink.
type Builder struct {
	cfg       *config.Config
	sink      render.Sink
	writer    *render.Writer
	assembler *assemble.Assembler
	log       *zap.SugaredLogger
}

// New wires the targets enabled in cfg to sink.
func New(cfg *config.Config, sink render.Sink) (*Builder, error) {
	layout, err := render.NewLayout(cfg.OutputRoot, cfg.ProjectName, cfg.Module.Prefix)
	if err != nil {
		return nil, err
	}

	store := render.NewStore(cfg.Templates.Dir)
	targets := []render.Target{render.BindingTarget(store)}
	if cfg.Targets.Descriptor {
		targets = append(targets, render.DescriptorTarget(store))
	}
	if cfg.Targets.MCP {
		targets = append(targets, mcptool.NewTarget())
	}

	w := render.NewWriter(layout, sink, targets...)
	return &Builder{
		cfg:       cfg,
		sink:      sink,
		writer:    w,
		assembler: assemble.New(w),
		log:       logger.ComponentLogger("builder"),
	}, nil
}

// Generate loads the configured manifest and runs the named modules, or
// every module when none are named.
func Generate(ctx context.Context, cfg *config.Config, sink render.Sink, only ...string) (*Report, error) {
	m, err := manifest.Load(ctx, cfg.Module.Manifest)
	if err != nil {
		return nil, err
	}
	if err := m.CheckEntryPoint(cfg.Module.BaseModule, cfg.Module.InstanceFunc, cfg.Module.InstanceCls); err != nil {
		return nil, err
	}
	b, err := New(cfg, sink)
	if err != nil {
		return nil, err
	}
	return b.Run(ctx, m, only...)
}

// Run generates the named modules, or every module when none are named.
// Only a run over every module sweeps stale artifacts.
func (b *Builder) Run(ctx context.Context, m *manifest.Manifest, only ...string) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	ctx = logger.WithRunID(ctx, report.RunID)
	log := b.log.With(logger.FieldsFromContext(ctx)...)

	w := walker.New(m, walker.Options{
		ClassMarker:    b.cfg.Module.ClassMarker,
		ClassMap:       b.cfg.Module.ClassMap,
		IgnoreTopAttrs: b.cfg.Module.Ignore.TopAttrs,
		IgnoreFuncs:    b.cfg.Module.Ignore.Funcs,
	}, log.Named("walker"))

	modules, err := b.selectModules(w, only)
	if err != nil {
		return nil, err
	}

	for _, mod := range modules {
		log.Infow("Processing module", logger.FieldModule, mod.Name, logger.FieldClass, mod.Class)
		group := render.Group{Name: mod.Name, Class: mod.Class, Doc: mod.ClassDoc}
		for _, method := range mod.Methods {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			rm, err := b.method(log, report, mod, method)
			if err != nil {
				return report, errors.Wrapf(err, "%s.%s", mod.Name, method.Name)
			}
			if rm != nil {
				group.Methods = append(group.Methods, *rm)
			}
		}
		report.Groups = append(report.Groups, group)

		res, err := b.assembler.Assemble(mod.Name, mod.ClassDoc)
		if err != nil {
			return report, errors.Wrapf(err, "failed to assemble %s", mod.Name)
		}
		report.Written = append(report.Written, res.Marker, res.Aggregator)
		report.Modules = append(report.Modules, mod.Name)
		log.Debugw("Assembled module", logger.FieldModule, mod.Name, logger.FieldCount, len(res.Commands))
	}

	if len(only) == 0 {
		removed, err := b.writer.Sweep()
		if err != nil {
			return report, errors.Wrap(err, "failed to sweep stale artifacts")
		}
		for _, path := range removed {
			log.Infow("Removed stale artifact", logger.FieldPath, path)
		}
		report.Removed = append(report.Removed, removed...)
	}

	sort.Strings(report.Written)
	sort.Strings(report.Removed)
	report.Duration = time.Since(start)
	log.Infow("Generation complete",
		logger.FieldCount, report.Methods,
		logger.FieldDurationMS, report.Duration.Milliseconds(),
	)
	return report, nil
}

func (b *Builder) selectModules(w *walker.Walker, only []string) ([]walker.Module, error) {
	if len(only) == 0 {
		return w.Modules()
	}
	names := append([]string(nil), only...)
	sort.Strings(names)
	modules := make([]walker.Module, 0, len(names))
	for _, name := range names {
		mod, err := w.Module(name)
		if err != nil {
			return nil, err
		}
		modules = append(modules, mod)
	}
	return modules, nil
}

// method renders one method. Deprecated methods are pruned and yield nil.
func (b *Builder) method(log *zap.SugaredLogger, report *Report, mod walker.Module, method manifest.Method) (*render.Method, error) {
	name := mod.Name + "." + method.Name
	log = log.With(logger.FieldModule, mod.Name, logger.FieldMethod, method.Name)
	log.Debugw("Building method")

	docs, err := doccomment.Parse(method.Doc)
	if err != nil {
		return nil, err
	}

	if docs.Deprecated {
		removed, err := b.writer.Prune(mod.Name, method.Name)
		if err != nil {
			return nil, err
		}
		report.Deprecated = append(report.Deprecated, name)
		report.Removed = append(report.Removed, removed...)
		log.Infow("Skipping deprecated method", logger.FieldCount, len(removed))
		return nil, nil
	}

	ret, err := reconcile.ResolveReturn(docs, b.cfg.Strict)
	if err != nil {
		if errors.IsFatal(err, b.cfg.Strict) {
			return nil, err
		}
		ret = reconcile.ReturnSpec{Type: reconcile.DefaultReturnType, Substituted: true}
	}
	if ret.Substituted {
		report.Substituted = append(report.Substituted, name)
		log.Warnw("Return value is undocumented, assuming " + ret.Type)
	}

	model, err := reconcile.Reconcile(method, docs)
	if err != nil {
		return nil, err
	}
	for _, arg := range model.Undocumented {
		log.Warnw("Error finding documentation for argument", logger.FieldParameter, arg)
	}

	rm := render.Method{
		Module:  mod.Name,
		Class:   mod.Class,
		Name:    method.Name,
		Summary: docs.Summary,
		Model:   model,
		Return:  ret,
	}
	c, err := render.NewContext(render.Options{
		ProjectName:   b.cfg.ProjectName,
		WrappedPrefix: b.cfg.Module.WrappedPrefix,
	}, rm)
	if err != nil {
		return nil, err
	}
	if b.cfg.Targets.Descriptor {
		for _, p := range c.Unresolved {
			report.Unresolved = append(report.Unresolved, name+"."+p)
			log.Warnw("Descriptor parameter has no translation", logger.FieldParameter, p, logger.FieldTarget, "descriptor")
		}
	}

	paths, err := b.writer.Emit(c, &rm)
	if err != nil {
		return nil, err
	}
	report.Written = append(report.Written, paths...)
	report.Methods++
	return &rm, nil
}
