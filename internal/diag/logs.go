package diag

import (
	"bufio"
	"fmt"
	"os"
)

// LogLine is one line of a merged log tail, labeled by its source file
// (spec §4.11: "merged from known log files with source labels").
type LogLine struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// Tail reads up to maxLines total lines across paths, taking each file's
// tail and labeling every line with its source path. A missing file is
// skipped rather than treated as an error, since "known log files" may
// not all exist yet (e.g. before the first request).
func Tail(paths []string, maxLines int) ([]LogLine, error) {
	var out []LogLine

	perFile := maxLines
	if len(paths) > 0 {
		perFile = maxLines / len(paths)
		if perFile < 1 {
			perFile = 1
		}
	}

	for _, path := range paths {
		lines, err := tailFile(path, perFile)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("diag: tail %s: %w", path, err)
		}
		for _, l := range lines {
			out = append(out, LogLine{Source: path, Text: l})
		}
	}

	if len(out) > maxLines {
		out = out[len(out)-maxLines:]
	}

	return out, nil
}

// tailFile returns the last n lines of path. Log files here are small
// enough (rotated by the ambient logging setup) that reading the whole
// file and keeping a ring of the last n lines is simpler and safer than
// seek-from-end heuristics.
func tailFile(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		ring = append(ring, scanner.Text())
		if len(ring) > n {
			ring = ring[1:]
		}
	}

	return ring, scanner.Err()
}
