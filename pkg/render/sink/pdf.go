package sink

import (
	"bytes"
	"fmt"

	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/matzehuels/circuitview/pkg/layout"
)

// pdfCreator is recorded in the PDF document info.
const pdfCreator = "circuitview"

// RenderPDF renders the layout as a single-page PDF sized to the canvas.
func RenderPDF(l layout.Layout, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	s := r.scene(l)
	c, err := paint(s)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, s.Width, s.Height, nil)
	writer.SetInfo(r.title, "", "quantum circuit", "", pdfCreator)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
