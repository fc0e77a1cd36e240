// Package fonts provides the fonts used for circuit rendering.
//
// The Go font family is compiled into the binary via golang.org/x/image, so
// raster and PDF output look the same on every machine without system fonts.
package fonts

import (
	"encoding/base64"
	"sync"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family name of the embedded font.
const FontFamily = "Go"

// FallbackFontFamily lists CSS fallbacks for SVG viewers without the
// embedded font.
const FallbackFontFamily = `'Go', 'Inter', 'Segoe UI', 'Helvetica Neue', Arial, sans-serif`

// RegularTTF returns the regular-weight TTF data.
func RegularTTF() []byte { return goregular.TTF }

// BoldTTF returns the bold-weight TTF data.
func BoldTTF() []byte { return gobold.TTF }

// Cache for base64-encoded fonts (computed once on first access).
var (
	regularBase64     string
	regularBase64Once sync.Once
)

// RegularTTFBase64 returns the regular TTF as a base64 string for
// @font-face data URIs. The result is cached after first computation.
func RegularTTFBase64() string {
	regularBase64Once.Do(func() {
		regularBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return regularBase64
}

var (
	family     *canvas.FontFamily
	familyErr  error
	familyOnce sync.Once
)

// Family returns the canvas font family with regular and bold faces loaded.
// It is shared and safe for concurrent use.
func Family() (*canvas.FontFamily, error) {
	familyOnce.Do(func() {
		f := canvas.NewFontFamily(FontFamily)
		if err := f.LoadFont(goregular.TTF, 0, canvas.FontRegular); err != nil {
			familyErr = err
			return
		}
		if err := f.LoadFont(gobold.TTF, 0, canvas.FontBold); err != nil {
			familyErr = err
			return
		}
		family = f
	})
	return family, familyErr
}
