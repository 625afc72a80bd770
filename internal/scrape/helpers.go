package scrape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var dollarAmountRegex = regexp.MustCompile(`\$[\d,]+`)

// cleanText collapses runs of whitespace into single spaces and trims.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// appendUnique appends a string to a slice if it doesn't already exist (case-insensitive).
func appendUnique(list []string, v string) []string {
	vClean := strings.TrimSpace(v)
	if vClean == "" {
		return list
	}

	vLower := strings.ToLower(vClean)
	for _, existing := range list {
		if strings.ToLower(existing) == vLower {
			return list
		}
	}
	return append(list, vClean)
}

// parsePrize extracts the largest dollar amount from free text. Prize blurbs
// often list several figures; the largest is the total pool.
func parsePrize(text string) (float64, string) {
	text = cleanText(text)
	if text == "" {
		return 0, "$0"
	}

	matches := dollarAmountRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return 0, text
	}

	var max float64
	for _, m := range matches {
		clean := strings.ReplaceAll(strings.TrimPrefix(m, "$"), ",", "")
		if v, err := strconv.ParseFloat(clean, 64); err == nil && v > max {
			max = v
		}
	}
	return max, text
}

// FormatAmount renders a non-negative amount as "$1,234".
func FormatAmount(amount float64) string {
	n := int64(amount)
	if n < 0 {
		n = 0
	}

	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return fmt.Sprintf("$%s", b.String())
}
