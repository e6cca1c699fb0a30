package operation

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PGijsbers/croissant/internal/ctxlog"
	"github.com/PGijsbers/croissant/internal/structure"
)

// Extract unpacks an archive file object so file sets contained in it can
// list and read its members. The input is the archive's local path, the
// output the directory it was extracted into.
type Extract struct {
	base
	fileObject *structure.FileObject
	cacheDir   string
}

// Execute unpacks the archive, reusing a previous extraction when present.
func (e *Extract) Execute(ctx context.Context, inputs []Result) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	if len(inputs) != 1 {
		return nil, fmt.Errorf("extract for node %q expects one input, got %d", e.fileObject.UID(), len(inputs))
	}
	archivePath, ok := inputs[0].(string)
	if !ok {
		return nil, fmt.Errorf("extract for node %q expects a file path input", e.fileObject.UID())
	}
	if e.fileObject.EncodingFormat != "application/zip" {
		return nil, fmt.Errorf("unsupported archive format %q for node %q",
			e.fileObject.EncodingFormat, e.fileObject.UID())
	}

	target := filepath.Join(e.cacheDir, "extract", e.fileObject.UID())
	if _, err := os.Stat(target); err == nil {
		logger.Debug("Using cached extraction.", "node", e.fileObject.UID(), "path", target)
		return target, nil
	}

	logger.Info("Extracting archive.", "node", e.fileObject.UID(), "path", archivePath)
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive for node %q: %w", e.fileObject.UID(), err)
	}
	defer reader.Close()

	for _, member := range reader.File {
		if err := extractMember(target, member); err != nil {
			return nil, fmt.Errorf("failed to extract %q from node %q: %w",
				member.Name, e.fileObject.UID(), err)
		}
	}
	return target, nil
}

func extractMember(target string, member *zip.File) error {
	cleaned := filepath.Clean(member.Name)
	if strings.HasPrefix(cleaned, "..") {
		return fmt.Errorf("member path escapes extraction root")
	}
	dest := filepath.Join(target, cleaned)
	if member.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	src, err := member.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}
