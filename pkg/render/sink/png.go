package sink

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/matzehuels/circuitview/pkg/layout"
)

// RenderPNG rasterizes the layout. The image is width*scale by
// height*scale pixels.
func RenderPNG(l layout.Layout, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	c, err := paint(r.scene(l))
	if err != nil {
		return nil, err
	}

	img := rasterizer.Draw(c, canvas.DPMM(r.scale), canvas.DefaultColorSpace)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
