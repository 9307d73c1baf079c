// Package stacktrace trims panic stacks down to the module's own frames.
package stacktrace

import "strings"

const marker = "/internal/"

// InternalPaths returns the file:line locations of frames under internal/,
// in stack order and with the goroutine header and PC offsets removed.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines)/2)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, ".go:") {
			continue
		}

		loc, _, _ := strings.Cut(line, " ")
		idx := strings.Index(loc, marker)
		if idx == -1 {
			continue
		}
		paths = append(paths, loc[idx+1:])
	}

	return paths
}
