package operation

import (
	"context"
	"fmt"

	"github.com/PGijsbers/croissant/internal/structure"
	"github.com/PGijsbers/croissant/internal/table"
)

// Concatenate unions per-file rows into one table: one row per matched file,
// columns the three path properties identifying the file.
type Concatenate struct {
	base
	fileSet *structure.FileSet
}

// Execute builds the path table. Zero paths is a hard error since the file
// set then describes nothing the record set could be built from.
func (c *Concatenate) Execute(_ context.Context, inputs []Result) (Result, error) {
	var paths []Path
	for _, input := range inputs {
		switch v := input.(type) {
		case Path:
			paths = append(paths, v)
		case []Path:
			paths = append(paths, v...)
		default:
			return nil, fmt.Errorf("concatenate for node %q got unexpected input %T", c.fileSet.UID(), input)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no path to concatenate for node %q", c.fileSet.UID())
	}

	t := table.New(FilePropertyFilepath, FilePropertyFilename, FilePropertyFullpath)
	for _, p := range paths {
		t.Append(table.Row{
			FilePropertyFilepath: p.Filepath,
			FilePropertyFilename: p.Filename,
			FilePropertyFullpath: p.Fullpath,
		})
	}
	return t, nil
}
