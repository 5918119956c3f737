package classify

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/matzehuels/sketchviz/pkg/errors"
	"github.com/matzehuels/sketchviz/pkg/svg"
)

// Reasons attached to a [Verdict].
const (
	ReasonRough   = "More paths and fewer polygons"
	Indeterminate = "Indeterminate"
)

// Status is the processing state of a [Result].
type Status string

const (
	StatusProcessed Status = "Processed"
	StatusInvalid   Status = "Invalid"
)

// Tally counts the element kinds the rule looks at.
type Tally struct {
	G       int `json:"g"`
	Polygon int `json:"polygon"`
	Path    int `json:"path"`
	Text    int `json:"text"`
}

// Count tallies the elements in the tree rooted at root.
func Count(root *svg.Element) Tally {
	var t Tally
	for el := range root.All() {
		switch {
		case el.Is("g"):
			t.G++
		case el.Is("polygon"):
			t.Polygon++
		case el.Is("path"):
			t.Path++
		case el.Is("text"):
			t.Text++
		}
	}
	return t
}

// Document is a named input to the classifier.
type Document struct {
	Name string       `json:"name"`
	Root *svg.Element `json:"-"`
}

// Verdict names the rough and simple documents, or neither.
type Verdict struct {
	Rough  *Document `json:"rough"`
	Simple *Document `json:"simple"`
	Reason string    `json:"reason,omitempty"`
}

// Decided reports whether the verdict names a rough document.
func (v Verdict) Decided() bool { return v.Rough != nil }

// Result is the outcome of a comparison.
type Result struct {
	Valid   bool     `json:"valid"`
	Status  Status   `json:"status"`
	Counts  [2]Tally `json:"counts"`
	Verdict Verdict  `json:"verdict"`
	Errors  []string `json:"errors,omitempty"`
}

// Err returns the validation failures as a CLASSIFICATION_INPUT_INVALID
// error, or nil for a processed result.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return errors.New(errors.ErrCodeClassificationInput, "%s", strings.Join(r.Errors, "; "))
}

// Compare classifies two parsed documents.
func Compare(a, b Document) Result {
	var errs []string
	for _, d := range []Document{a, b} {
		if msg := check(d.Root); msg != "" {
			errs = append(errs, fmt.Sprintf("Invalid SVG content: %s: %s", d.Name, msg))
		}
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}

	ca, cb := Count(a.Root), Count(b.Root)
	res := Result{Valid: true, Status: StatusProcessed, Counts: [2]Tally{ca, cb}}
	switch {
	case dominates(ca, cb):
		res.Verdict = Verdict{Rough: &a, Simple: &b, Reason: ReasonRough}
	case dominates(cb, ca):
		res.Verdict = Verdict{Rough: &b, Simple: &a, Reason: ReasonRough}
	default:
		res.Verdict = Verdict{Reason: Indeterminate}
	}
	return res
}

// dominates reports whether x looks rougher than y. The path comparison is
// strict, so at most one of dominates(x, y) and dominates(y, x) holds.
func dominates(x, y Tally) bool {
	return x.Path > y.Path && x.Polygon <= y.Polygon
}

// check returns why root cannot be classified, or "".
func check(root *svg.Element) string {
	switch {
	case root == nil:
		return "no document"
	case !root.Is("svg"):
		return svg.ReasonMissingRoot
	}
	return ""
}

// CompareSVG parses and classifies two SVG texts, named "input1" and
// "input2".
func CompareSVG(a, b []byte) Result {
	return compareNamed([]string{"input1", "input2"}, [][]byte{a, b})
}

// CompareFiles reads and classifies two SVG files. Documents are named by
// their paths.
func CompareFiles(pathA, pathB string) Result {
	paths := []string{pathA, pathB}
	data := make([][]byte, 2)
	var errs []string
	for i, p := range paths {
		b, err := os.ReadFile(p)
		switch {
		case stderrors.Is(err, fs.ErrNotExist):
			errs = append(errs, "File not found: "+p)
		case err != nil:
			errs = append(errs, fmt.Sprintf("Cannot read %s: %v", p, err))
		}
		data[i] = b
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}
	return compareNamed(paths, data)
}

func compareNamed(names []string, data [][]byte) Result {
	docs := make([]Document, 2)
	var errs []string
	for i := range docs {
		root, err := svg.Parse(data[i])
		if err != nil {
			errs = append(errs, fmt.Sprintf("Invalid SVG content: %s: %v", names[i], err))
			continue
		}
		docs[i] = Document{Name: names[i], Root: root}
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}
	return Compare(docs[0], docs[1])
}

func invalid(errs ...string) Result {
	return Result{Status: StatusInvalid, Errors: errs}
}

// Outcome summarizes a result as "rough", "indeterminate" or "invalid".
func (r Result) Outcome() string {
	switch {
	case !r.Valid:
		return "invalid"
	case r.Verdict.Decided():
		return "rough"
	}
	return "indeterminate"
}
