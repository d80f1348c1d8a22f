package export

import (
	"image/color"
	"strings"
	"testing"

	"golang.org/x/image/font"

	"github.com/bmadison/classwrap/internal/deck"
)

var (
	testBG     = color.RGBA{R: 0x0F, G: 0x17, B: 0x2A, A: 0xFF}
	testFG     = color.RGBA{R: 0xE2, G: 0xE8, B: 0xF0, A: 0xFF}
	testAccent = color.RGBA{R: 0x22, G: 0xD3, B: 0xEE, A: 0xFF}
)

func testFace(t *testing.T, px float64) font.Face {
	t.Helper()
	regular, _, err := fonts()
	if err != nil {
		t.Fatalf("fonts failed: %v", err)
	}
	face, err := newFace(regular, px)
	if err != nil {
		t.Fatalf("newFace failed: %v", err)
	}
	return face
}

func testSlide() *deck.Slide {
	return &deck.Slide{
		ID:         "weekend",
		Kind:       deck.SlideStandard,
		Title:      "Weekend Warrior",
		Big:        "23",
		Bottom:     "assignments submitted on weekends",
		Background: testBG,
		Foreground: testFG,
		Accent:     testAccent,
	}
}

// TestWrapEllipsisShort verifies text that fits stays on one unchanged line
func TestWrapEllipsisShort(t *testing.T) {
	face := testFace(t, 20)

	lines := wrapEllipsis(face, "hello world", 10000, 2)
	if len(lines) != 1 || lines[0] != "hello world" {
		t.Errorf("Expected single unchanged line, got %v", lines)
	}
	if lines := wrapEllipsis(face, "", 10000, 2); lines != nil {
		t.Errorf("Expected nil for empty text, got %v", lines)
	}
}

// TestWrapEllipsisBreaks verifies wrapping at a measured width
func TestWrapEllipsisBreaks(t *testing.T) {
	face := testFace(t, 20)
	width := font.MeasureString(face, "alpha beta").Ceil()

	lines := wrapEllipsis(face, "alpha beta gamma", width, 2)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %v", lines)
	}
	if lines[0] != "alpha beta" || lines[1] != "gamma" {
		t.Errorf("Expected [alpha beta, gamma], got %v", lines)
	}
	for _, line := range lines {
		if font.MeasureString(face, line).Ceil() > width {
			t.Errorf("Line %q exceeds the wrap width", line)
		}
	}
}

// TestWrapEllipsisOverflow verifies the last line ellipsizes dropped words
func TestWrapEllipsisOverflow(t *testing.T) {
	face := testFace(t, 20)
	width := font.MeasureString(face, "alpha beta").Ceil()

	lines := wrapEllipsis(face, "alpha beta gamma delta epsilon", width, 2)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %v", lines)
	}
	last := lines[len(lines)-1]
	if !strings.HasSuffix(last, "...") {
		t.Errorf("Expected ellipsized last line, got %q", last)
	}
	if font.MeasureString(face, last).Ceil() > width {
		t.Errorf("Ellipsized line %q exceeds the wrap width", last)
	}
}

// TestWrapEllipsisLongWord verifies a single oversized word is truncated
func TestWrapEllipsisLongWord(t *testing.T) {
	face := testFace(t, 20)
	width := font.MeasureString(face, "mmmm").Ceil()

	lines := wrapEllipsis(face, "mmmmmmmmmmmmmmmmmmmm", width, 2)
	if len(lines) == 0 {
		t.Fatal("Expected at least one line")
	}
	if !strings.HasSuffix(lines[0], "...") {
		t.Errorf("Expected truncated word with ellipsis, got %q", lines[0])
	}
	if font.MeasureString(face, lines[0]).Ceil() > width {
		t.Errorf("Truncated word %q exceeds the wrap width", lines[0])
	}
}

// TestCard verifies the card is the right size, keeps the background in the
// margins, and actually draws text
func TestCard(t *testing.T) {
	img, err := Card(testSlide(), 400)
	if err != nil {
		t.Fatalf("Card failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 400 {
		t.Errorf("Expected 400x400, got %dx%d", b.Dx(), b.Dy())
	}
	if got := img.RGBAAt(2, 2); got != testBG {
		t.Errorf("Expected background in the margin, got %v", got)
	}

	drawn := 0
	for y := 0; y < 400; y++ {
		for x := 0; x < 400; x++ {
			if img.RGBAAt(x, y) != testBG {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("Expected text pixels over the background, got a flat fill")
	}
}

// TestCardDefaultSize verifies the zero-size fallback
func TestCardDefaultSize(t *testing.T) {
	img, err := Card(testSlide(), 0)
	if err != nil {
		t.Fatalf("Card failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != DefaultCardSize {
		t.Errorf("Expected default %dpx, got %d", DefaultCardSize, b.Dx())
	}
}

// TestListCard verifies the ranked-rows layout renders
func TestListCard(t *testing.T) {
	s := testSlide()
	s.Kind = deck.SlideList
	s.Big = ""
	s.Rows = []deck.CryptoLine{
		{Title: "Alice Smith", Subtitle: "7 shared classes"},
		{Title: "Bob Jones", Subtitle: "5 shared classes"},
	}

	img, err := Card(s, 400)
	if err != nil {
		t.Fatalf("Card failed: %v", err)
	}
	drawn := 0
	for y := 0; y < 400; y++ {
		for x := 0; x < 400; x++ {
			if img.RGBAAt(x, y) != testBG {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("Expected list rows drawn over the background")
	}
}
