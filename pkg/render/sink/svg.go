package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/circuitview/pkg/fonts"
	"github.com/matzehuels/circuitview/pkg/layout"
	"github.com/matzehuels/circuitview/pkg/render"
)

const gateInteractionCSS = `
    .gate { transition: stroke-width 0.15s ease; }
    .gate:hover { stroke-width: 3; }
    text { pointer-events: none; }`

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(l layout.Layout, opts ...Option) []byte {
	r := newRenderer(opts...)
	s := r.scene(l)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}

	renderDefs(&buf, r.embedFont)
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", gateInteractionCSS)
	}

	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.Background)
	for _, sh := range s.Shapes {
		switch v := sh.(type) {
		case render.Line:
			renderLine(&buf, v)
		case render.Rect:
			renderRect(&buf, v)
		case render.Text:
			renderText(&buf, v)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer, embedFont bool) {
	buf.WriteString("  <defs>\n")
	// Glow: blurred copy of the stroke merged under the original.
	buf.WriteString(`    <filter id="glow" x="-50%" y="-50%" width="200%" height="200%">` + "\n")
	fmt.Fprintf(buf, `      <feGaussianBlur in="SourceGraphic" stdDeviation="%.1f" result="blur"/>`+"\n", render.GlowRadius/3)
	buf.WriteString("      <feMerge><feMergeNode in=\"blur\"/><feMergeNode in=\"SourceGraphic\"/></feMerge>\n")
	buf.WriteString("    </filter>\n")
	if embedFont {
		fmt.Fprintf(buf, "    <style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }</style>\n",
			fonts.FontFamily, fonts.RegularTTFBase64())
	}
	buf.WriteString("  </defs>\n")
}

func renderLine(buf *bytes.Buffer, l render.Line) {
	class := "wire"
	if l.Gate >= 0 {
		class = "connector"
	}
	fmt.Fprintf(buf, `  <line class="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"`,
		class, l.X1, l.Y1, l.X2, l.Y2, l.Color, l.Width)
	if l.Gate >= 0 {
		fmt.Fprintf(buf, ` data-gate="%d"`, l.Gate)
	}
	buf.WriteString("/>\n")
}

func renderRect(buf *bytes.Buffer, r render.Rect) {
	if r.Glow != "" {
		fmt.Fprintf(buf, `  <rect class="glow" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="%.1f" filter="url(#glow)"/>`+"\n",
			r.X, r.Y, r.W, r.H, r.Glow, r.StrokeWidth*2)
	}
	class := "panel"
	if r.Gate >= 0 {
		class = "gate"
	}
	fmt.Fprintf(buf, `  <rect class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f"`, class, r.X, r.Y, r.W, r.H)
	if r.Radius > 0 {
		fmt.Fprintf(buf, ` rx="%.1f"`, r.Radius)
	}
	fmt.Fprintf(buf, ` fill="%s" stroke="%s" stroke-width="%.1f"`, r.Fill, r.Stroke, r.StrokeWidth)
	if r.Gate >= 0 {
		fmt.Fprintf(buf, ` data-gate="%d"`, r.Gate)
	}
	buf.WriteString("/>\n")
}

func renderText(buf *bytes.Buffer, t render.Text) {
	weight := "normal"
	if t.Bold {
		weight = "bold"
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="%s" dominant-baseline="central" font-family="%s" font-size="%.0f" font-weight="%s" fill="%s">%s</text>`+"\n",
		t.X, t.Y, t.Align, escapeXML(fonts.FallbackFontFamily), t.Size, weight, t.Color, escapeXML(t.Content))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
