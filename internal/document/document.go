// Package document parses a Croissant JSON metadata file into native Go
// values. Parsing goes through HCL's JSON syntax so the rest of the system
// never touches the raw bytes; unknown keys survive the decoding untouched
// and are simply ignored by the structure-graph builder.
package document

import (
	"context"
	"fmt"
	"os"

	hcljson "github.com/hashicorp/hcl/v2/json"

	"github.com/PGijsbers/croissant/internal/ctxlog"
)

// Load reads and decodes the metadata document at the given path. The result
// is the document's top-level object as a map of native Go values.
func Load(ctx context.Context, path string) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading metadata document.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}
	doc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Metadata document decoded.", "keys", len(doc))
	return doc, nil
}

// Parse decodes raw JSON bytes into the document's top-level object. The
// filename is only used for error positions.
func Parse(data []byte, filename string) (map[string]any, error) {
	file, diags := hcljson.Parse(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, diags)
	}

	doc := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate %q in %s: %w", name, filename, diags)
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("in attribute %q: %w", name, err)
		}
		doc[name] = native
	}
	return doc, nil
}
