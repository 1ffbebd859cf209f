// Package rank derives quality and priority scores from stream records and
// sorts candidates under the user-configured ranking policy.
package rank

import (
	"regexp"
	"strconv"
)

// knownResolutions is the set of bare numbers accepted as a video resolution.
var knownResolutions = map[int]struct{}{
	240:  {},
	360:  {},
	480:  {},
	720:  {},
	1080: {},
	1440: {},
	2160: {},
	4320: {},
	8000: {},
}

var (
	fourKRe    = regexp.MustCompile(`(?i)\b4k\b`)
	pSuffixRe  = regexp.MustCompile(`(?i)\b(\d{3,4})p\b`)
	bareNumsRe = regexp.MustCompile(`\b(\d{3,4})\b`)
)

// Quality extracts a numeric quality from a title string.
// Resolution order: an explicit "4K" token, then a number followed by "p",
// then any bare 3-4 digit number matching a known resolution. Unknown is 0.
func Quality(title string) int {
	if title == "" {
		return 0
	}

	if fourKRe.MatchString(title) {
		return 2160
	}

	if m := pSuffixRe.FindStringSubmatch(title); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}

	for _, m := range bareNumsRe.FindAllStringSubmatch(title, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, ok := knownResolutions[n]; ok {
			return n
		}
	}

	return 0
}

// QualityLabel renders a quality score for display ("1080p", "4K", "?" for unknown).
func QualityLabel(quality int) string {
	switch {
	case quality == 0:
		return "?"
	case quality >= 2160:
		return "4K"
	default:
		return strconv.Itoa(quality) + "p"
	}
}
