package deck

import (
	"testing"
)

func testRecord() *DataRecord {
	return &DataRecord{
		Fields: map[string]string{
			"student_name":  "Sam Rivera",
			"weekend_count": "23",
			"busiest_month": "October",
		},
		Lists: map[string][]string{
			"classmates": {
				"Alice Smith\t7 shared classes",
				"Bob Jones\t5 shared classes",
			},
		},
	}
}

// TestSubstitute verifies token resolution and the visibly-broken rule for
// unknown tokens
func TestSubstitute(t *testing.T) {
	rec := testRecord()
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Plain text", input: "no tokens here", expected: "no tokens here"},
		{name: "Single token", input: "Hello %{student_name}!", expected: "Hello Sam Rivera!"},
		{name: "Repeated token", input: "%{busiest_month} and %{busiest_month}", expected: "October and October"},
		{name: "Unknown stays verbatim", input: "count: %{no_such_field}", expected: "count: %{no_such_field}"},
		{name: "Mixed", input: "%{weekend_count} in %{missing}", expected: "23 in %{missing}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Substitute(tt.input, rec); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestSplitRow verifies tab-separated rows split into title and subtitle
func TestSplitRow(t *testing.T) {
	line := splitRow("Alice Smith\t7 shared classes")
	if line.Title != "Alice Smith" || line.Subtitle != "7 shared classes" {
		t.Errorf("Expected split row, got %+v", line)
	}
	line = splitRow("just a title")
	if line.Title != "just a title" || line.Subtitle != "" {
		t.Errorf("Expected title-only row, got %+v", line)
	}
}

// TestBuildDeck verifies styles and data merge into the runtime deck with the
// right animation variant per slide
func TestBuildDeck(t *testing.T) {
	sheet, err := LoadStyles([]byte(`
[deck]
background = "#0F172A"
foreground = "#E2E8F0"
accent = "#22D3EE"

[[slide]]
id = "count"
title = "Weekend Warrior"
big = "%{weekend_count}"
anim = "countup"
background = "#FAD673"

[[slide]]
id = "month"
title = "Busiest Month"
big = "%{busiest_month}"
anim = "reveal"
options = ["January", "February"]

[[slide]]
id = "name"
title = "Cover"
big = "%{student_name}"
anim = "crypto"

[[slide]]
id = "people"
kind = "list"
title = "Constants"
list = "classmates"

[[slide]]
id = "summary"
kind = "grid"
title = "Highlights"
[[slide.tiles]]
title = "Weekend"
value = "%{weekend_count}"
`))
	if err != nil {
		t.Fatalf("LoadStyles failed: %v", err)
	}

	slides := Build(sheet, testRecord(), false)
	if len(slides) != 5 {
		t.Fatalf("Expected 5 slides, got %d", len(slides))
	}

	if _, ok := slides[0].Value.(*CountUpAnim); !ok {
		t.Errorf("Expected CountUpAnim, got %T", slides[0].Value)
	}
	if _, ok := slides[1].Value.(*TextRevealAnim); !ok {
		t.Errorf("Expected TextRevealAnim, got %T", slides[1].Value)
	}
	if _, ok := slides[2].Value.(*CryptoRevealAnim); !ok {
		t.Errorf("Expected CryptoRevealAnim, got %T", slides[2].Value)
	}

	if got := HexString(slides[0].Background); got != "#fad673" {
		t.Errorf("Expected slide's own background, got %s", got)
	}
	if got := HexString(slides[1].Background); got != "#0f172a" {
		t.Errorf("Expected deck fallback background, got %s", got)
	}
	if got := HexString(slides[1].Accent); got != "#22d3ee" {
		t.Errorf("Expected deck fallback accent, got %s", got)
	}

	list := slides[3]
	if len(list.Rows) != 2 || list.Rows[0].Title != "Alice Smith" {
		t.Errorf("Expected resolved list rows, got %+v", list.Rows)
	}
	if _, ok := list.Value.(*CryptoRevealAnim); !ok {
		t.Errorf("Expected list slide to crypto-reveal, got %T", list.Value)
	}

	grid := slides[4]
	if len(grid.Tiles) != 1 || grid.Tiles[0].Value != "23" {
		t.Errorf("Expected substituted tile value, got %+v", grid.Tiles)
	}
}

// TestBuildWhenGate verifies when-gated slides appear only with their field
func TestBuildWhenGate(t *testing.T) {
	sheet, err := LoadStyles([]byte(`
[[slide]]
id = "always"
title = "A"

[[slide]]
id = "gated"
title = "B"
when = "has_classmates"
`))
	if err != nil {
		t.Fatalf("LoadStyles failed: %v", err)
	}

	slides := Build(sheet, &DataRecord{}, false)
	if len(slides) != 1 || slides[0].ID != "always" {
		t.Fatalf("Expected gated slide dropped, got %d slides", len(slides))
	}

	slides = Build(sheet, &DataRecord{Fields: map[string]string{"has_classmates": "yes"}}, false)
	if len(slides) != 2 {
		t.Errorf("Expected gated slide present, got %d slides", len(slides))
	}
}

// TestBuildDefaultDeck verifies the embedded sheet builds against a full
// record with nothing left unresolved
func TestBuildDefaultDeck(t *testing.T) {
	sheet, err := DefaultStyles()
	if err != nil {
		t.Fatalf("DefaultStyles failed: %v", err)
	}

	rec := &DataRecord{
		Fields: map[string]string{
			"student_name":         "Sam Rivera",
			"busiest_month":        "October",
			"busiest_month_count":  "31",
			"busiest_month_note":   "You had 31 assignments due in October!",
			"top_course":           "AP Chemistry",
			"top_course_count":     "58",
			"top_course_note":      "58 assignments this year",
			"largest_class_course": "World History",
			"largest_class_size":   "34",
			"largest_class_note":   "You shared this class with 34 classmates",
			"weekend_count":        "23",
			"weekday_count":        "187",
			"night_owl_count":      "41",
			"night_owl_pct":        "19.5",
			"night_owl_note":       "assignments submitted after 10pm... that's 19.5% of assignments!",
			"procrastination":      "14 hours",
			"procrastination_note": "14 hours before the deadline (pretty good!)",
			"early_bird_count":     "12",
			"early_bird_pct":       "5.7",
			"early_bird_note":      "assignments submitted more than 48 hours early... that's 5.7% of assignments!",
			"late_count":           "9",
			"missing_count":        "4",
			"most_missing_course":  "Physics",
			"most_missing_note":    "3 missing assignments... that's 12.0% of assignments!",
			"has_classmates":       "yes",
		},
		Lists: map[string][]string{
			"classmates": {"Alice Smith\t7 shared classes"},
		},
	}

	slides := Build(sheet, rec, false)
	if len(slides) != len(sheet.Slides) {
		t.Fatalf("Expected %d slides, got %d", len(sheet.Slides), len(slides))
	}
	for _, s := range slides {
		for _, text := range []string{s.Title, s.Bottom} {
			if tokenPattern.MatchString(text) {
				t.Errorf("Slide %q left a token unresolved: %q", s.ID, text)
			}
		}
		for _, tile := range s.Tiles {
			if tokenPattern.MatchString(tile.Value) {
				t.Errorf("Slide %q tile left a token unresolved: %q", s.ID, tile.Value)
			}
		}
	}
}

// TestBuildEmbedCover verifies embed mode strips the cover's scroll hint and
// touches nothing else
func TestBuildEmbedCover(t *testing.T) {
	sheet, err := DefaultStyles()
	if err != nil {
		t.Fatalf("DefaultStyles failed: %v", err)
	}
	rec := testRecord()

	standalone := Build(sheet, rec, false)
	if standalone[0].Kind != SlideCover {
		t.Fatalf("Expected cover first, got %v", standalone[0].Kind)
	}
	if standalone[0].Bottom == "" {
		t.Fatal("Expected standalone cover to carry a scroll hint")
	}

	embedded := Build(sheet, rec, true)
	if embedded[0].Bottom != "" {
		t.Errorf("Expected embedded cover hint stripped, got %q", embedded[0].Bottom)
	}
	if embedded[0].Title != standalone[0].Title || embedded[0].Big != standalone[0].Big {
		t.Error("Expected embed mode to leave cover title and name alone")
	}
	if len(embedded) != len(standalone) {
		t.Errorf("Expected same slide count, got %d vs %d", len(embedded), len(standalone))
	}
}
