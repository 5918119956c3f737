package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/sketchviz/pkg/errors"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestConvert(t *testing.T) {
	if !Available() {
		_, err := ToPDF(context.Background(), []byte(square))
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("ToPDF() without rsvg-convert error = %v, want UNSUPPORTED", err)
		}
		t.Skip("rsvg-convert not installed")
	}

	tests := []struct {
		name   string
		render func() ([]byte, error)
		magic  []byte
	}{
		{"pdf", func() ([]byte, error) { return ToPDF(context.Background(), []byte(square)) }, []byte("%PDF")},
		{"png", func() ([]byte, error) { return ToPNG(context.Background(), []byte(square), 2) }, []byte("\x89PNG")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.render()
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(data, tt.magic) {
				t.Errorf("output starts with %q", data[:min(len(data), 8)])
			}
		})
	}
}
