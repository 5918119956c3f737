package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/sketchviz/pkg/errors"
)

// Param is one key: value pair of an inline tag.
type Param struct {
	Key   string
	Value any // bool, int, float64 or string
}

// Tag is parsed inline tag markup such as
//
//	"flow.dot", roughness: 2.5, bowing: 1, styled: false
type Tag struct {
	Markup   string
	FileName string
	Params   []Param
}

var (
	floatRe = regexp.MustCompile(`^\d+\.\d+$`)
	intRe   = regexp.MustCompile(`^\d+$`)
)

// ParseTag splits markup into a file name and parameters. The file name is
// everything before the first comma with double quotes removed. Parameters
// are comma separated key: value pairs. Values are booleans, unsigned
// integers, decimals, or any other valid JSON literal, which is kept as a
// string with its double quotes removed.
func ParseTag(markup string) (Tag, error) {
	markup = strings.TrimSpace(markup)
	tag := Tag{Markup: markup}

	name, rest, hasParams := strings.Cut(markup, ",")
	tag.FileName = strings.ReplaceAll(strings.TrimSpace(name), `"`, "")
	if !hasParams {
		return tag, nil
	}

	for _, pair := range strings.Split(strings.TrimSpace(rest), ",") {
		key, value, _ := strings.Cut(pair, ":")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch {
		case key == "":
			return Tag{}, errors.New(errors.ErrCodeInvalidParams, "Malformed parameter: %q (missing key)", pair)
		case value == "":
			return Tag{}, errors.New(errors.ErrCodeInvalidParams, "Malformed parameter: %q (missing value)", pair)
		}
		v, err := convertValue(value)
		if err != nil {
			return Tag{}, err
		}
		tag.Params = append(tag.Params, Param{Key: key, Value: v})
	}
	return tag, nil
}

func convertValue(s string) (any, error) {
	switch {
	case s == "true":
		return true, nil
	case s == "false":
		return false, nil
	case floatRe.MatchString(s):
		return strconv.ParseFloat(s, 64)
	case intRe.MatchString(s):
		return strconv.Atoi(s)
	case !json.Valid([]byte(s)):
		return nil, errors.New(errors.ErrCodeInvalidParams, "Invalid value format: %q", s)
	}
	return strings.ReplaceAll(s, `"`, ""), nil
}

// Param returns the last value given for key.
func (t Tag) Param(key string) (any, bool) {
	for i := len(t.Params) - 1; i >= 0; i-- {
		if t.Params[i].Key == key {
			return t.Params[i].Value, true
		}
	}
	return nil, false
}

// Apply merges tag parameters into c. Known keys must have the right type;
// unknown keys are ignored.
func (c *Config) Apply(tag Tag) error {
	for _, p := range tag.Params {
		var err error
		switch p.Key {
		case "roughness":
			c.Roughness, err = number(p)
		case "bowing":
			c.Bowing, err = number(p)
		case "seed":
			var f float64
			if f, err = number(p); err == nil {
				c.Seed = uint64(f)
			}
		case "styled":
			c.Output.Inline.Styled, err = boolean(p)
		case "input_collection":
			c.InputCollection, err = str(p)
		case "dot":
			c.Executable.Dot, err = str(p)
		case "layout":
			c.Executable.Layout, err = str(p)
		}
		if err != nil {
			return err
		}
	}
	return c.Validate()
}

func number(p Param) (float64, error) {
	switch v := p.Value.(type) {
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidParams, "%s: want a number, got %v", p.Key, p.Value)
}

func boolean(p Param) (bool, error) {
	if v, ok := p.Value.(bool); ok {
		return v, nil
	}
	return false, errors.New(errors.ErrCodeInvalidParams, "%s: want true or false, got %v", p.Key, p.Value)
}

func str(p Param) (string, error) {
	if v, ok := p.Value.(string); ok && v != "" {
		return v, nil
	}
	return "", errors.New(errors.ErrCodeInvalidParams, "%s: want a name, got %v", p.Key, p.Value)
}

// Resolve returns the path of the tag's diagram inside the collection below
// root. The name must be a relative .dot or .gv path and the file must
// exist.
func (c Config) Resolve(root string, tag Tag) (string, error) {
	if tag.FileName == "" {
		return "", errors.New(errors.ErrCodeInvalidParams, "Missing file name in Sketchviz tag")
	}
	if err := errors.ValidateDiagramName(tag.FileName); err != nil {
		return "", err
	}
	path := filepath.Join(c.CollectionDir(root), tag.FileName)
	if _, err := os.Stat(path); err != nil {
		return "", errors.New(errors.ErrCodeFileNotFound, "File not found: %s", path)
	}
	return path, nil
}

// Debug describes the merged configuration and the raw tag markup.
func Debug(c Config, tag Tag) string {
	merged := map[string]any{}
	if b, err := json.Marshal(c); err == nil {
		_ = json.Unmarshal(b, &merged)
	}
	for _, p := range tag.Params {
		merged[p.Key] = p.Value
	}
	merged["file_name"] = tag.FileName

	b, err := json.Marshal(merged)
	if err != nil {
		b = []byte(fmt.Sprintf("%+v", c))
	}
	return fmt.Sprintf("Sketchviz Configuration: %s\nTag Parameters: %s", b, tag.Markup)
}
