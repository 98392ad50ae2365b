package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm asks a yes/no question and reads the answer from in. It keeps
// asking until it gets a recognizable answer; end of input counts as no.
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprintf(out, "%s (y/n): ", prompt)
		if !scanner.Scan() {
			return false
		}
		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}
