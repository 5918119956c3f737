package dot

import (
	"bytes"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sketchviz/pkg/errors"
)

// Overrides are per-diagram style settings read from TOML front matter.
// Nil fields are unset.
type Overrides struct {
	Roughness *float64 `toml:"roughness"`
	Bowing    *float64 `toml:"bowing"`
	Seed      *uint64  `toml:"seed"`
}

// Source is a DOT diagram ready for compilation.
type Source struct {
	// Name identifies the diagram in logs and errors, usually its file path.
	Name string
	// Text is the DOT payload with any front matter removed.
	Text string
	// FrontMatter is the raw front matter block without its delimiters.
	FrontMatter string
	Overrides   Overrides
}

// NewSource returns a Source for text without front matter processing.
func NewSource(name, text string) Source {
	return Source{Name: name, Text: text}
}

// Empty reports whether the source has no DOT payload.
func (s Source) Empty() bool {
	return strings.TrimSpace(s.Text) == ""
}

// ParseSource splits data into front matter and DOT payload. An empty payload
// is an EMPTY_INPUT error.
func ParseSource(name string, data []byte) (Source, error) {
	src := Source{Name: name}
	body := data
	if delim, front, rest, ok := splitFrontMatter(data); ok {
		src.FrontMatter = string(front)
		body = rest
		if delim == "+++" {
			if _, err := toml.Decode(src.FrontMatter, &src.Overrides); err != nil {
				return Source{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s: front matter", name)
			}
		}
	}
	src.Text = string(body)
	if src.Empty() {
		return Source{}, errors.New(errors.ErrCodeEmptyInput, "%s: no DOT source", name)
	}
	return src, nil
}

// splitFrontMatter finds a block opened and closed by a "---" or "+++" line
// at the very start of data.
func splitFrontMatter(data []byte) (delim string, front, rest []byte, ok bool) {
	first, after, found := bytes.Cut(data, []byte("\n"))
	if !found {
		return "", nil, nil, false
	}
	delim = strings.TrimSpace(string(first))
	if delim != "---" && delim != "+++" {
		return "", nil, nil, false
	}

	var block [][]byte
	for len(after) > 0 {
		line, tail, _ := bytes.Cut(after, []byte("\n"))
		if strings.TrimSpace(string(line)) == delim {
			return delim, bytes.Join(block, []byte("\n")), tail, true
		}
		block = append(block, line)
		after = tail
	}
	return "", nil, nil, false
}
