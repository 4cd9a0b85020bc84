package gateway

import (
	"regexp"
	"sort"
	"strings"
)

// outputNameRE enforces the output filename grammar (spec §3, §6): either
// a per-engine synthesis artifact (`{engine}-{label}-{8hex}.{wav|mp3|m4b}`,
// internal/engine.baseAdapter.generate) or an audiobook artifact and its
// optional subtitle sibling (`audiobook-{jobid}.{wav|mp3|m4b|srt|vtt}`,
// internal/job/audiobook.go). Deletion endpoints validate against it
// before touching anything under the output directory.
var outputNameRE = regexp.MustCompile(buildOutputNamePattern())

// buildOutputNamePattern assembles the grammar from the live engine name
// set so the allow-list can never drift from the route table in
// internal/gateway/engines.go.
func buildOutputNamePattern() string {
	names := make([]string, 0, len(engineNames))
	for n := range engineNames {
		names = append(names, regexp.QuoteMeta(n))
	}
	sort.Strings(names)

	enginePattern := `(?:` + strings.Join(names, "|") + `)-[a-z0-9_]+-[0-9a-f]{8}\.(?:wav|mp3|m4b)`
	audiobookPattern := `audiobook-[0-9a-f]+\.(?:wav|mp3|m4b|srt|vtt)`

	return `^(?:` + enginePattern + `|` + audiobookPattern + `)$`
}

// ValidOutputName reports whether name is safe to delete from the output
// directory: it must match the job engine's own naming convention, never
// an arbitrary caller-supplied path.
func ValidOutputName(name string) bool {
	return outputNameRE.MatchString(name)
}
