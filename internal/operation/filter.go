package operation

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/PGijsbers/croissant/internal/ctxlog"
	"github.com/PGijsbers/croissant/internal/structure"
)

// FilterFiles lists the files of a container directory matching a file set's
// includes pattern. The input is the directory path, the output one Path per
// match, sorted by their path relative to the directory.
type FilterFiles struct {
	base
	fileSet *structure.FileSet
	// root is the fallback listing root for file sets without a container:
	// the directory of the metadata document.
	root string
}

// Execute walks the listing root and keeps paths matching the pattern.
func (f *FilterFiles) Execute(ctx context.Context, inputs []Result) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	root := f.root
	if len(inputs) > 1 {
		return nil, fmt.Errorf("filter for node %q expects at most one input, got %d", f.fileSet.UID(), len(inputs))
	}
	if len(inputs) == 1 {
		dir, ok := inputs[0].(string)
		if !ok {
			return nil, fmt.Errorf("filter for node %q expects a directory path input", f.fileSet.UID())
		}
		root = dir
	}

	var paths []Path
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if matchIncludes(f.fileSet.Includes, rel, d.Name()) {
			paths = append(paths, Path{
				Filepath: path,
				Filename: d.Name(),
				Fullpath: filepath.ToSlash(rel),
			})
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to list files for node %q: %w", f.fileSet.UID(), err)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i].Fullpath < paths[j].Fullpath })
	logger.Debug("Filtered file listing.", "node", f.fileSet.UID(), "matches", len(paths))
	return paths, nil
}

// matchIncludes matches the glob against the path relative to the listing
// root, falling back to the bare file name so patterns like "*.jpg" select
// files in subdirectories too.
func matchIncludes(pattern, rel, name string) bool {
	if ok, _ := filepath.Match(pattern, filepath.ToSlash(rel)); ok {
		return true
	}
	ok, _ := filepath.Match(pattern, name)
	return ok
}
