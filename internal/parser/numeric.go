package parser

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	maxPrice       = 50000.0
	maxReviewCount = 10_000_000
	maxRating      = 5.0
)

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	priceCharsRe    = regexp.MustCompile(`[^\d.,]`)
	leadingNumberRe = regexp.MustCompile(`^(?:\d+(?:\.\d+)?|\.\d+)`)
	decimalCommaRe  = regexp.MustCompile(`(\d),(\d)`)

	ratingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*out\s*of\s*5`),
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*von\s*5`),
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*stars?`),
		regexp.MustCompile(`(\d+(?:\.\d+)?)`),
	}

	reviewPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{1,3}(?:[,.]\d{3})+|\d+)\s*(?:global\s+)?reviews?`),
		regexp.MustCompile(`(?i)(\d{1,3}(?:[,.]\d{3})+|\d+)\s*(?:global\s+)?ratings?`),
		regexp.MustCompile(`(?i)(\d{1,3}(?:[,.]\d{3})+|\d+)\s*customer`),
		regexp.MustCompile(`(?i)(\d{1,3}(?:[,.]\d{3})+|\d+)\s*(?:sternebewertungen|bewertungen|rezensionen|évaluations|commentaires)`),
		regexp.MustCompile(`(\d{1,3}(?:[,.]\d{3})+|\d+)`),
	}
)

// CleanText collapses runs of whitespace and trims the result.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// ParsePrice reads a price out of display text such as "$1,234.56" or
// "19,99 €". It returns nil unless the value is in (0, 50000].
func ParsePrice(text string) *float64 {
	cleaned := priceCharsRe.ReplaceAllString(text, "")
	if cleaned == "" {
		return nil
	}

	value, ok := parseLeadingFloat(normalizeSeparators(cleaned))
	if !ok || value <= 0 || value > maxPrice {
		return nil
	}
	return &value
}

// normalizeSeparators rewrites a digits/dots/commas string so that the only
// remaining dot, if any, is the decimal point.
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	// 1.234,56 and 19,99
	if lastComma > lastDot {
		if tail := len(s) - lastComma - 1; tail == 1 || tail == 2 {
			head := strings.NewReplacer(".", "", ",", "").Replace(s[:lastComma])
			return head + "." + s[lastComma+1:]
		}
	}

	s = dropThousandsCommas(s)

	// 1.234 and 1.234.567 with no decimal part
	if !strings.Contains(s, ",") && isDotGrouped(s) {
		return strings.ReplaceAll(s, ".", "")
	}

	// keep only the last dot
	if strings.Count(s, ".") > 1 {
		last := strings.LastIndex(s, ".")
		s = strings.ReplaceAll(s[:last], ".", "") + s[last:]
	}
	return s
}

// dropThousandsCommas removes every comma that is followed by three digits.
func dropThousandsCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ',' && i+4 <= len(s) && allDigits(s[i+1:i+4]) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isDotGrouped(s string) bool {
	groups := strings.Split(s, ".")
	if len(groups) < 2 || len(groups[0]) == 0 || len(groups[0]) > 3 || !allDigits(groups[0]) {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseLeadingFloat(s string) (float64, bool) {
	match := leadingNumberRe.FindString(s)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ParseRating reads a star rating such as "4.5 out of 5 stars" or
// "4,7 von 5 Sternen". The first pattern yielding a value in [0, 5] wins.
func ParseRating(text string) *float64 {
	if text == "" {
		return nil
	}
	text = decimalCommaRe.ReplaceAllString(text, "$1.$2")

	for _, pattern := range ratingPatterns {
		match := pattern.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		if value >= 0 && value <= maxRating {
			return &value
		}
	}
	return nil
}

// ParseReviewCount reads a review count such as "1,234 ratings" or
// "1.234 Bewertungen". It returns nil unless the count is in (0, 10,000,000).
func ParseReviewCount(text string) *int {
	if text == "" {
		return nil
	}

	for _, pattern := range reviewPatterns {
		match := pattern.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		digits := strings.NewReplacer(",", "", ".", "").Replace(match[1])
		count, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		if count > 0 && count < maxReviewCount {
			return &count
		}
	}
	return nil
}
