package scrape

import (
	"regexp"
	"strings"
	"time"
)

var (
	isoDateRegex   = regexp.MustCompile(`\b(20\d{2})-(\d{2})-(\d{2})\b`)
	usDateRegex    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(20\d{2})\b`)
	monthDateRegex = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2}),?\s+(20\d{2})\b`)
)

// extractISODate pulls the first recognizable date out of free text and
// returns it in ISO form, or "" when nothing parses. Listing pages mix
// formats ("Mar 15, 2026", "03/15/2026", ISO) so every pattern is tried.
func extractISODate(text string) string {
	text = cleanDatePrefix(text)
	if text == "" {
		return ""
	}

	if m := isoDateRegex.FindString(text); m != "" {
		if _, err := time.Parse("2006-01-02", m); err == nil {
			return m
		}
	}

	if m := usDateRegex.FindStringSubmatch(text); len(m) == 4 {
		for _, layout := range []string{"1/2/2006", "01/02/2006"} {
			if t, err := time.Parse(layout, m[0]); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}

	if m := monthDateRegex.FindStringSubmatch(text); len(m) == 4 {
		joined := m[1] + " " + m[2] + ", " + m[3]
		for _, layout := range []string{"January 2, 2006", "Jan 2, 2006"} {
			if t, err := time.Parse(layout, joined); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}

	return ""
}

// cleanDatePrefix strips labels that commonly precede deadline text.
func cleanDatePrefix(s string) string {
	prefixes := []string{
		"Deadline:", "Closing date:", "Due date:", "Expires:", "Ends:",
		"Submissions close:", "Submission period:",
	}
	sLower := strings.ToLower(s)
	for _, p := range prefixes {
		if idx := strings.Index(sLower, strings.ToLower(p)); idx != -1 {
			s = s[idx+len(p):]
			sLower = strings.ToLower(s)
		}
	}
	return strings.TrimSpace(s)
}
