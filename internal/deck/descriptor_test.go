package deck

import (
	"strings"
	"testing"
)

const minimalSheet = `
[deck]
background = "#0F172A"

[[slide]]
id = "one"
title = "First"
big = "%{value}"
anim = "countup"

[[slide]]
id = "two"
kind = "list"
title = "Second"
list = "rows"
`

// TestLoadStylesMinimal verifies a minimal sheet parses with defaults applied
func TestLoadStylesMinimal(t *testing.T) {
	sheet, err := LoadStyles([]byte(minimalSheet))
	if err != nil {
		t.Fatalf("LoadStyles failed: %v", err)
	}
	if len(sheet.Slides) != 2 {
		t.Fatalf("Expected 2 slides, got %d", len(sheet.Slides))
	}
	if sheet.Slides[0].ID != "one" || sheet.Slides[1].ID != "two" {
		t.Errorf("Slide order lost: %q, %q", sheet.Slides[0].ID, sheet.Slides[1].ID)
	}
}

// TestLoadStylesValidation verifies every malformed sheet is rejected with a
// message naming the offending slide
func TestLoadStylesValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "No slides",
			input:   `[deck]` + "\n" + `background = "#000000"`,
			wantErr: "no slides",
		},
		{
			name:    "Missing id",
			input:   "[[slide]]\ntitle = \"x\"",
			wantErr: "no id",
		},
		{
			name:    "Duplicate id",
			input:   "[[slide]]\nid = \"a\"\n[[slide]]\nid = \"a\"",
			wantErr: "duplicate slide id",
		},
		{
			name:    "Bad color",
			input:   "[[slide]]\nid = \"a\"\nbackground = \"blue\"",
			wantErr: "background",
		},
		{
			name:    "Unknown effect",
			input:   "[[slide]]\nid = \"a\"\neffect = \"confetti\"",
			wantErr: "unknown effect",
		},
		{
			name:    "Unknown anim",
			input:   "[[slide]]\nid = \"a\"\nanim = \"bounce\"",
			wantErr: "unknown anim",
		},
		{
			name:    "Unknown kind",
			input:   "[[slide]]\nid = \"a\"\nkind = \"carousel\"",
			wantErr: "unknown kind",
		},
		{
			name:    "List without key",
			input:   "[[slide]]\nid = \"a\"\nkind = \"list\"",
			wantErr: "without a list key",
		},
		{
			name:    "Grid without tiles",
			input:   "[[slide]]\nid = \"a\"\nkind = \"grid\"",
			wantErr: "without tiles",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadStyles([]byte(tt.input))
			if err == nil {
				t.Fatal("Expected validation error, got none")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got %q", tt.wantErr, err)
			}
		})
	}
}

// TestDefaultStyles verifies the embedded deck parses, validates, and keeps
// the slide order the recap service fills in
func TestDefaultStyles(t *testing.T) {
	sheet, err := DefaultStyles()
	if err != nil {
		t.Fatalf("DefaultStyles failed: %v", err)
	}
	if sheet.Slides[0].ID != "cover" {
		t.Errorf("Expected cover first, got %q", sheet.Slides[0].ID)
	}
	last := sheet.Slides[len(sheet.Slides)-1]
	if last.ID != "highlights" || len(last.Tiles) != 8 {
		t.Errorf("Expected highlights grid with 8 tiles last, got %q with %d", last.ID, len(last.Tiles))
	}

	var hasList bool
	for _, sl := range sheet.Slides {
		if kind, _ := ParseSlideKind(sl.Kind); kind == SlideList {
			hasList = true
		}
		if eff, _ := ParseOverlayEffect(sl.Effect); eff == OverlayRain || eff == OverlayFireworks {
			if strings.TrimSpace(sl.Glyphs) == "" {
				t.Errorf("Slide %q uses %s without glyphs", sl.ID, sl.Effect)
			}
		}
	}
	if !hasList {
		t.Error("Expected a list slide in the default deck")
	}
}
