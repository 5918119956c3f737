package pipeline

import (
	"context"

	"github.com/matzehuels/sketchviz/pkg/errors"
	"github.com/matzehuels/sketchviz/pkg/render"
	"github.com/matzehuels/sketchviz/pkg/svg"
)

// export serializes doc in every requested format into artifacts.
func export(ctx context.Context, doc *svg.Element, opts Options, artifacts map[string][]byte) error {
	data := svg.Document(doc)

	for _, format := range opts.Formats {
		var out []byte
		var err error

		switch format {
		case FormatSVG:
			out = data
		case FormatPNG:
			out, err = render.ToPNG(ctx, data, opts.Scale)
		case FormatPDF:
			out, err = render.ToPDF(ctx, data)
		default:
			return errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return errors.Wrap(errors.GetCode(err), err, "render %s", format)
		}
		artifacts[format] = out
	}
	return nil
}
