package operation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PGijsbers/croissant/internal/ctxlog"
	"github.com/PGijsbers/croissant/internal/structure"
	"github.com/PGijsbers/croissant/internal/table"
)

// Read parses a file object's content into a tabular result. The input is a
// local path: the downloaded file itself, or the extraction directory of its
// container, in which case contentUrl names the member to read.
type Read struct {
	base
	fileObject  *structure.FileObject
	inContainer bool
}

// Execute parses the file according to its declared encoding format.
func (r *Read) Execute(ctx context.Context, inputs []Result) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	if len(inputs) != 1 {
		return nil, fmt.Errorf("read for node %q expects one input, got %d", r.fileObject.UID(), len(inputs))
	}
	path, ok := inputs[0].(string)
	if !ok {
		return nil, fmt.Errorf("read for node %q expects a path input", r.fileObject.UID())
	}
	if r.inContainer {
		path = filepath.Join(path, r.fileObject.ContentURL)
	}

	logger.Debug("Reading file.", "node", r.fileObject.UID(), "path", path,
		"format", r.fileObject.EncodingFormat)
	switch r.fileObject.EncodingFormat {
	case "text/csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file for node %q: %w", r.fileObject.UID(), err)
		}
		defer file.Close()
		t, err := table.ReadCSV(file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv for node %q: %w", r.fileObject.UID(), err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported encoding format %q for node %q",
			r.fileObject.EncodingFormat, r.fileObject.UID())
	}
}
