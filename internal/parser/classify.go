package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/maltedev/listing-extractor/internal/models"
)

const (
	maxKeywords      = 10
	minKeywordLength = 3
	maxKeywordLength = 20
)

type categoryRule struct {
	category string
	keywords []string
}

// Checked in order; the first rule with a matching keyword wins.
var categoryRules = []categoryRule{
	{"electronics", []string{"电子", "electronic", "phone", "computer"}},
	{"clothing", []string{"服装", "clothing", "shirt", "dress"}},
	{"home", []string{"家居", "home", "kitchen", "furniture"}},
	{"books", []string{"书", "book", "novel"}},
	{"sports", []string{"运动", "sport", "fitness", "gym"}},
	{"beauty", []string{"美容", "beauty", "cosmetic", "skincare"}},
	{"automotive", []string{"汽车", "automotive", "car", "vehicle"}},
}

var nonTokenRe = regexp.MustCompile(`[^\w\s\x{4e00}-\x{9fff}]`)

// InferCategory maps title and description onto a fixed category set.
func InferCategory(title, description string) string {
	text := strings.ToLower(title + " " + description)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return models.DefaultCategory
}

// ExtractKeywords tokenizes title and description into at most ten distinct
// keywords in first-seen order.
func ExtractKeywords(title, description string) []string {
	text := nonTokenRe.ReplaceAllString(strings.ToLower(title+" "+description), " ")

	keywords := make([]string, 0, maxKeywords)
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(text) {
		n := utf8.RuneCountInString(token)
		if n < minKeywordLength || n >= maxKeywordLength {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
