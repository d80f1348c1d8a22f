package deck

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed default_styles.toml
var defaultStylesTOML []byte

// DefaultStyles parses the deck definition compiled into the binary.
func DefaultStyles() (*StyleSheet, error) {
	sheet, err := LoadStyles(defaultStylesTOML)
	if err != nil {
		return nil, fmt.Errorf("embedded deck styles: %w", err)
	}
	return sheet, nil
}

// StylesFromFile loads a deck definition from disk, for custom decks.
func StylesFromFile(path string) (*StyleSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck styles: %w", err)
	}
	sheet, err := LoadStyles(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sheet, nil
}
