package vdom

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	cverrors "github.com/cv-dev/cv/internal/errors"
	"github.com/cv-dev/cv/pkg/dom"
)

const tracerName = "github.com/cv-dev/cv/pkg/vdom"

// Engine virtualizes and renders against one host document.
// It is not safe for concurrent use; like the document it drives, it
// belongs to a single UI goroutine.
type Engine struct {
	doc      dom.Document
	loader   Loader
	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer

	// strict turns unsupported template input into panics instead of
	// logged warnings.
	strict bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLoader sets the loader used to resolve module markers.
func WithLoader(l Loader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver sets the render observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider.
// Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		if tp != nil {
			e.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithStrict makes unsupported template input panic with a coded error.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// New creates an Engine for doc.
func New(doc dom.Document, opts ...Option) *Engine {
	e := &Engine{
		doc:      doc,
		logger:   slog.Default(),
		observer: NopObserver{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Document returns the host document.
func (e *Engine) Document() dom.Document {
	return e.doc
}

// fail applies the error policy: panic in strict mode, warn otherwise.
func (e *Engine) fail(err *cverrors.Error) {
	if e.strict {
		panic(err)
	}
	e.logger.Warn("cv: dropping unsupported input",
		"code", err.Code,
		"error", err.FormatCompact(),
		"detail", err.Detail,
	)
}
