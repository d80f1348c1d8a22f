// Package fonts exposes the typefaces bundled with the viewer. The Go fonts
// ship with full Latin coverage and a licence that allows embedding, and
// using the same family everywhere keeps on-screen slides and exported cards
// visually consistent.
package fonts

import (
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	Regular = goregular.TTF
	Bold    = gobold.TTF
)
