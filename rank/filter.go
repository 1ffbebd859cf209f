package rank

import (
	"regexp"
	"strings"

	"github.com/qarqun/NuvioStreaming/stream"
	"github.com/samber/lo"
)

// compilePattern interprets an exclusion entry as a case-insensitive regular
// expression, falling back to plain substring matching when it does not compile.
func compilePattern(pattern string) func(string) bool {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		needle := strings.ToLower(pattern)
		return func(s string) bool {
			return strings.Contains(strings.ToLower(s), needle)
		}
	}
	return re.MatchString
}

// Exclude drops every record whose title or name matches any exclusion pattern.
// It is applied before any sectioning or ranking, so excluded records never
// appear in counts, sections, or autoplay candidacy.
func Exclude(records []stream.Record, patterns []string) []stream.Record {
	if len(patterns) == 0 {
		return records
	}

	matchers := lo.Map(patterns, func(p string, _ int) func(string) bool {
		return compilePattern(p)
	})

	return lo.Filter(records, func(r stream.Record, _ int) bool {
		for _, matches := range matchers {
			if matches(r.Title) || matches(r.Name) {
				return false
			}
		}
		return true
	})
}
