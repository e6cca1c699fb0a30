// Package croissant loads datasets described by Croissant JSON metadata
// documents. A document is parsed into a validated structure graph, lowered
// into a DAG of data operations, and executed to stream the records of a
// named record set.
package croissant

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/PGijsbers/croissant/internal/ctxlog"
	"github.com/PGijsbers/croissant/internal/document"
	"github.com/PGijsbers/croissant/internal/issues"
	"github.com/PGijsbers/croissant/internal/operation"
	"github.com/PGijsbers/croissant/internal/structure"
)

// ValidationError aggregates every problem found during one validation pass,
// each entry prefixed with the breadcrumb of the node it belongs to.
type ValidationError = issues.ValidationError

// Dataset is a validated Croissant dataset, ready to materialize record sets.
type Dataset struct {
	graph *structure.Graph
	opts  options
}

type options struct {
	baseDir  string
	cacheDir string
	fetcher  operation.Fetcher
}

// Option customizes dataset loading.
type Option func(*options)

// WithCacheDir sets the directory downloads and extractions are cached in.
func WithCacheDir(dir string) Option {
	return func(o *options) { o.cacheDir = dir }
}

// WithFetcher replaces the HTTP fetcher used for remote content.
func WithFetcher(f operation.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// Load reads and validates the metadata document at the given path. When the
// document is invalid, the returned error is a *ValidationError listing every
// accumulated issue. Warnings are logged, never fatal.
func Load(ctx context.Context, path string, opts ...Option) (*Dataset, error) {
	logger := ctxlog.FromContext(ctx)

	doc, err := document.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	iss := issues.New()
	graph, err := structure.Build(ctx, doc, iss)
	for _, warning := range iss.Warnings() {
		logger.Warn(warning)
	}
	if err != nil {
		return nil, err
	}

	o := options{baseDir: filepath.Dir(path)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Dataset{graph: graph, opts: o}, nil
}

// Parse validates an in-memory document. It is Load without the file system.
func Parse(ctx context.Context, data []byte, opts ...Option) (*Dataset, error) {
	logger := ctxlog.FromContext(ctx)

	doc, err := document.Parse(data, "metadata.json")
	if err != nil {
		return nil, err
	}

	iss := issues.New()
	graph, err := structure.Build(ctx, doc, iss)
	for _, warning := range iss.Warnings() {
		logger.Warn(warning)
	}
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Dataset{graph: graph, opts: o}, nil
}

// Name returns the dataset's declared name.
func (d *Dataset) Name() string {
	return d.graph.Metadata().Name()
}

// RecordSets returns the names of the dataset's record sets, in document
// order.
func (d *Dataset) RecordSets() []string {
	var names []string
	for _, node := range d.graph.Nodes() {
		if rs, ok := node.(*structure.RecordSet); ok {
			names = append(names, rs.Name())
		}
	}
	return names
}

// Records compiles the operation graph for the named record set and returns
// a lazy iterator over its records. The operations run on the first call to
// Next; the resulting sequence is finite, single-pass and non-restartable.
func (d *Dataset) Records(ctx context.Context, recordSet string) (*Records, error) {
	plan, err := operation.Compile(ctx, d.graph, recordSet, operation.Options{
		BaseDir:  d.opts.baseDir,
		CacheDir: d.opts.cacheDir,
		Fetcher:  d.opts.fetcher,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compile record set %q: %w", recordSet, err)
	}
	return &Records{ctx: ctx, plan: plan}, nil
}
