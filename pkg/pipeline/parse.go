package pipeline

import (
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/matzehuels/sketchviz/pkg/dot"
	"github.com/matzehuels/sketchviz/pkg/errors"
)

// LoadSource reads a DOT file and strips its front matter.
func LoadSource(path string) (dot.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return dot.Source{}, errors.New(errors.ErrCodeFileNotFound, "File not found: %s", path)
		}
		return dot.Source{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return dot.ParseSource(path, data)
}
