package pipeline

import (
	"html"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/matzehuels/sketchviz/pkg/errors"
	"github.com/matzehuels/sketchviz/pkg/svg"
)

// ErrorPrefix starts every inline error marker.
const ErrorPrefix = "Error rendering Sketchviz diagram: "

// Inline wraps doc in a div for embedding into HTML. The XML declaration is
// omitted.
func Inline(doc *svg.Element, class string) string {
	return "<div class='" + html.EscapeString(class) + "'>" + doc.String() + "</div>"
}

// ErrorMarker renders err as the HTML placeholder shown instead of a
// diagram.
func ErrorMarker(err error) string {
	return "<div class='error'>" + ErrorPrefix + html.EscapeString(errors.UserMessage(err)) + "</div>"
}

// OutputName maps a diagram below inputDir to its output path below
// outputDir, replacing the .dot or .gv extension with format.
func OutputName(inputDir, outputDir, path, format string) (string, error) {
	rel, err := filepath.Rel(inputDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.ErrCodeInvalidPath, "%s is not inside %s", path, inputDir)
	}
	if errors.IsDiagramFile(rel) {
		rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	}
	return filepath.Join(outputDir, rel+"."+format), nil
}

// FindSources lists the .dot and .gv files below dir in lexical order.
func FindSources(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if errors.IsDiagramFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "scan %s", dir)
	}
	return paths, nil
}
