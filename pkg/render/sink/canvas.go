package sink

import (
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"

	"github.com/matzehuels/circuitview/pkg/fonts"
	"github.com/matzehuels/circuitview/pkg/render"
)

// mmToPt converts canvas units to font points. Canvas units are treated as
// pixels, so a 12px label gets a 12-unit tall face.
const mmToPt = 72 / 25.4

// glowRings approximates the blur halo with concentric translucent strokes.
const glowRings = 3

var transparent = color.RGBA{0, 0, 0, 0}

// paint draws a scene onto a new tdewolff canvas with the origin at the
// top-left corner.
func paint(s render.Scene) (*canvas.Canvas, error) {
	family, err := fonts.Family()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	c := canvas.New(s.Width, s.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(canvas.Hex(s.Background))
	ctx.SetStrokeColor(transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(s.Width, s.Height))

	faces := map[faceKey]*canvas.FontFace{}
	for _, sh := range s.Shapes {
		switch v := sh.(type) {
		case render.Line:
			drawLine(ctx, v)
		case render.Rect:
			drawRect(ctx, v)
		case render.Text:
			drawText(ctx, family, faces, v)
		}
	}
	return c, nil
}

func drawLine(ctx *canvas.Context, l render.Line) {
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(canvas.Hex(l.Color))
	ctx.SetStrokeWidth(l.Width)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(l.X2-l.X1, l.Y2-l.Y1)
	ctx.DrawPath(l.X1, l.Y1, p)
}

func drawRect(ctx *canvas.Context, r render.Rect) {
	if r.Glow != "" {
		base := canvas.Hex(r.Glow)
		ctx.SetFillColor(transparent)
		for i := glowRings; i >= 1; i-- {
			spread := float64(i) * render.GlowRadius / glowRings
			ctx.SetStrokeColor(withAlpha(base, 0.5/float64(i+1)))
			ctx.SetStrokeWidth(spread)
			ctx.DrawPath(r.X, r.Y, canvas.Rectangle(r.W, r.H))
		}
	}

	ctx.SetFillColor(canvas.Hex(r.Fill))
	ctx.SetStrokeColor(canvas.Hex(r.Stroke))
	ctx.SetStrokeWidth(r.StrokeWidth)
	shape := canvas.Rectangle(r.W, r.H)
	if r.Radius > 0 {
		shape = canvas.RoundedRectangle(r.W, r.H, r.Radius)
	}
	ctx.DrawPath(r.X, r.Y, shape)
}

type faceKey struct {
	size  float64
	bold  bool
	color string
}

func drawText(ctx *canvas.Context, family *canvas.FontFamily, faces map[faceKey]*canvas.FontFace, t render.Text) {
	key := faceKey{t.Size, t.Bold, t.Color}
	face, ok := faces[key]
	if !ok {
		style := canvas.FontRegular
		if t.Bold {
			style = canvas.FontBold
		}
		face = family.Face(t.Size*mmToPt, canvas.Hex(t.Color), style, canvas.FontNormal)
		faces[key] = face
	}

	align := canvas.Left
	switch t.Align {
	case render.AlignCenter:
		align = canvas.Center
	case render.AlignRight:
		align = canvas.Right
	}

	// Center the glyph box on Y, matching SVG's central baseline.
	m := face.Metrics()
	baseline := t.Y + (m.Ascent-m.Descent)/2
	ctx.DrawText(t.X, baseline, canvas.NewTextLine(face, t.Content, align))
}

// withAlpha returns c with its alpha scaled to a, premultiplied.
func withAlpha(c color.RGBA, a float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
