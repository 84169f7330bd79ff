package vdom

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	cverrors "github.com/cv-dev/cv/internal/errors"
	"github.com/cv-dev/cv/pkg/dom"
	"github.com/cv-dev/cv/pkg/reactive"
)

// Marker attributes read by Virtualize.
const (
	ModuleAttribute = "module"
	ExportAttribute = "export"
)

// DefaultExport is the export used when an element names no export.
const DefaultExport = "default"

// Loader resolves a module specifier. Load may block; it should honour
// ctx cancellation.
type Loader interface {
	Load(ctx context.Context, specifier string) (Module, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, specifier string) (Module, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, specifier string) (Module, error) {
	return f(ctx, specifier)
}

// Module is a loaded module's set of exported components.
type Module interface {
	Export(name string) (Component, bool)
}

// Namespace is a Module backed by a map.
type Namespace map[string]Component

// Export returns the named component.
func (ns Namespace) Export(name string) (Component, bool) {
	c, ok := ns[name]
	return c, ok && c != nil
}

// Virtualize turns an existing document node into its virtual form and,
// for elements, renders it once so the live node replaces the static one.
//
// An element carrying a module attribute is handed to the component the
// module exports, selected by the export attribute or DefaultExport. Both
// marker attributes are removed. Other elements are rebuilt with their own
// tag and their children virtualized recursively. Text nodes become
// Primitives.
func (e *Engine) Virtualize(ctx context.Context, n dom.Node) (Child, error) {
	ctx, span := e.tracer.Start(ctx, "cv.Virtualize",
		trace.WithAttributes(attribute.String("cv.node_type", n.NodeType().String())),
	)
	defer span.End()

	child, err := e.virtualize(ctx, n)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetStatus(codes.Ok, "")

	if vn, ok := child.(*Node); ok {
		e.Render(vn)
	}
	return child, nil
}

// VirtualizeAny virtualizes a reactive value or a document node.
func (e *Engine) VirtualizeAny(ctx context.Context, src any) (Child, error) {
	switch s := src.(type) {
	case reactive.Readable:
		return e.Reactive(s), nil
	case dom.Node:
		return e.Virtualize(ctx, s)
	}
	return nil, cverrors.New("CV102").WithDetailf("cannot virtualize %T", src)
}

// Enhance virtualizes every element under root, root included, that
// carries a module attribute. Marked elements nested inside another marked
// element are not visited; they reach the outer component as raw children.
// It returns the number of elements enhanced and the joined errors of
// those that failed.
func (e *Engine) Enhance(ctx context.Context, root dom.Element) (int, error) {
	var targets []dom.Element
	collectMarked(root, &targets)

	var (
		count int
		errs  []error
	)
	for _, el := range targets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := e.Virtualize(ctx, el); err != nil {
			errs = append(errs, err)
			continue
		}
		count++
	}
	return count, errors.Join(errs...)
}

func collectMarked(el dom.Element, out *[]dom.Element) {
	if spec, ok := el.GetAttribute(ModuleAttribute); ok && spec != "" {
		*out = append(*out, el)
		return
	}
	for _, c := range el.Children() {
		collectMarked(c, out)
	}
}

func (e *Engine) virtualize(ctx context.Context, n dom.Node) (Child, error) {
	switch v := n.(type) {
	case dom.Text:
		return Text(v.Data()), nil
	case dom.Element:
		return e.virtualizeElement(ctx, v)
	}
	return nil, cverrors.New("CV102").WithDetailf("node type %s", n.NodeType())
}

func (e *Engine) virtualizeElement(ctx context.Context, el dom.Element) (*Node, error) {
	var (
		component Component
		err       error
	)

	spec, _ := el.GetAttribute(ModuleAttribute)
	if spec != "" {
		el.RemoveAttribute(ModuleAttribute)
		component, err = e.resolve(ctx, el, spec)
	} else {
		component, err = e.defaultComponent(ctx, el)
	}
	if err != nil {
		return nil, err
	}

	// Read after the markers are gone so they never reach the component.
	attributes := sourceAttributes(el)

	sourceChildren := contentChildren(el)
	children := make([]any, len(sourceChildren))
	for i, c := range sourceChildren {
		children[i] = c
	}

	vn := component(ComponentArgs{
		Engine:     e,
		Tag:        el.TagName(),
		Attributes: attributes,
		Events:     Events{},
		Children:   children,
	})
	if vn == nil {
		return nil, cverrors.New("CV103").WithDetailf("module %q on <%s>", spec, el.TagName())
	}

	vn.Attributes = attributes
	vn.node = el
	return vn, nil
}

// resolve loads spec and picks the export named on el.
func (e *Engine) resolve(ctx context.Context, el dom.Element, spec string) (Component, error) {
	if e.loader == nil {
		return nil, cverrors.New("CV202").WithDetailf("module %q", spec)
	}

	exportName := DefaultExport
	if name, ok := el.GetAttribute(ExportAttribute); ok {
		el.RemoveAttribute(ExportAttribute)
		if name != "" {
			exportName = name
		}
	}

	mod, err := e.load(ctx, spec)
	if err != nil {
		return nil, cverrors.New("CV200").WithDetailf("module %q", spec).Wrap(err)
	}

	component, ok := mod.Export(exportName)
	if !ok {
		return nil, cverrors.New("CV201").WithDetailf("module %q has no export %q", spec, exportName)
	}
	return component, nil
}

func (e *Engine) load(ctx context.Context, spec string) (Module, error) {
	ctx, span := e.tracer.Start(ctx, "cv.module.load",
		trace.WithAttributes(attribute.String("cv.module.specifier", spec)),
	)
	defer span.End()

	start := time.Now()
	mod, err := e.loader.Load(ctx, spec)
	if err == nil && mod == nil {
		err = cverrors.New("CV203").WithDetail("loader returned no module")
	}
	elapsed := time.Since(start)

	e.observer.ModuleLoaded(spec, elapsed, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.Warn("cv: module load failed", "module", spec, "error", err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	e.logger.Debug("cv: module loaded", "module", spec, "elapsed", elapsed)
	return mod, nil
}

// defaultComponent rebuilds el with its own tag. Its children are
// virtualized now so nested module markers are resolved too.
func (e *Engine) defaultComponent(ctx context.Context, el dom.Element) (Component, error) {
	var children []Child
	for _, c := range contentChildren(el) {
		vc, err := e.virtualize(ctx, c)
		if err != nil {
			return nil, err
		}
		children = append(children, vc)
	}
	if children == nil {
		children = []Child{}
	}

	tag := el.TagName()
	return func(args ComponentArgs) *Node {
		return &Node{
			renderer:   e.elementRenderer(tag),
			Attributes: args.Attributes,
			Events:     Events{},
			Children:   children,
		}
	}, nil
}
