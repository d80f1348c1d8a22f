//go:build darwin

package ui

import (
	"os/exec"
	"strings"
)

func writeClipboard(text string) {
	cmd := exec.Command("pbcopy")
	cmd.Stdin = strings.NewReader(text)
	go cmd.Run()
}
