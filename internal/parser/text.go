package parser

import (
	"strings"
	"unicode/utf8"
)

const (
	minFragmentLen    = 10
	minDescriptionLen = 50
)

var titleSelectors = []string{
	"#productTitle",
	`[data-automation-id="product-title"]`,
	".product-title",
	"h1",
}

var descriptionSelectors = []string{
	"#feature-bullets ul li span",
	".a-unordered-list.a-vertical li span",
	"#productDescription p",
	".product-description",
	".aplus-v2 .celwidget",
}

const bulletFallbackSelector = "#feature-bullets li"

// ExtractTitle returns the first non-empty title candidate, or "".
func ExtractTitle(doc Document) string {
	for _, selector := range titleSelectors {
		if title := firstText(doc, selector); title != "" {
			return title
		}
	}
	return ""
}

// ExtractDescription joins the fragments of the first content block that
// reads as a real description. Short blocks are used only when nothing
// longer exists. Returns "" when the page has no description at all.
func ExtractDescription(doc Document) string {
	var short string

	for _, selector := range descriptionSelectors {
		text := joinFragments(doc.Find(selector))
		if utf8.RuneCountInString(text) > minDescriptionLen {
			return text
		}
		if text != "" && short == "" {
			short = text
		}
	}

	if bullets := joinFragments(doc.Find(bulletFallbackSelector)); bullets != "" {
		return bullets
	}
	return short
}

// joinFragments drops boilerplate fragments and joins the rest with newlines.
func joinFragments(sel Selection) string {
	var parts []string
	sel.Each(func(_ int, s Selection) {
		text := CleanText(s.Text())
		if utf8.RuneCountInString(text) > minFragmentLen {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n")
}
