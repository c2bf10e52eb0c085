package parser

import (
	"regexp"
	"strings"
)

const maxScannedPrice = 10000.0

var priceSelectors = []string{
	".a-price .a-offscreen",
	".a-price-whole",
	".a-price-range .a-offscreen",
	"#priceblock_dealprice",
	"#priceblock_ourprice",
	".a-price.a-text-price .a-offscreen",
	".a-price-current .a-offscreen",
	`span[data-a-color="price"]`,
	`.a-offscreen[aria-hidden="true"]`,
}

var ratingSelectors = []string{
	`[data-hook="average-star-rating"] .a-sr-only`,
	".a-icon-alt",
	".reviewCountTextLinkedHistogram .a-sr-only",
	`[data-hook="rating-out-of-text"]`,
	".a-star-medium .a-sr-only",
	".cr-widget-summary .a-sr-only",
}

var reviewSelectors = []string{
	`[data-hook="total-review-count"]`,
	"#acrCustomerReviewText",
	".reviewCountTextLinkedHistogram",
	`[data-hook="total-review-count"] .a-sr-only`,
	`.cr-widget-summary a[href*="reviews"]`,
	`a[data-hook="see-all-reviews-link"]`,
	`span[data-hook="total-review-count"]`,
	`.a-link-normal[href*="#customerReviews"]`,
}

var currencyAmountRe = regexp.MustCompile(`[$£€¥₹]\s?\d[\d,.]*`)

// firstParsed walks selectors in order and returns the first value parse accepts.
func firstParsed[T any](doc Document, selectors []string, parse func(string) *T) *T {
	for _, selector := range selectors {
		text := firstText(doc, selector)
		if text == "" {
			continue
		}
		if v := parse(text); v != nil {
			return v
		}
	}
	return nil
}

// ExtractPrice tries the known price locations, then scans span and div text
// for a currency amount below 10000.
func ExtractPrice(doc Document) *float64 {
	if price := firstParsed(doc, priceSelectors, ParsePrice); price != nil {
		return price
	}

	var found *float64
	doc.Find("span, div").Each(func(_ int, s Selection) {
		if found != nil {
			return
		}
		match := currencyAmountRe.FindString(s.Text())
		if match == "" {
			return
		}
		if price := ParsePrice(match); price != nil && *price < maxScannedPrice {
			found = price
		}
	})
	return found
}

// ExtractRating prefers a non-zero rating; a literal 0 is kept only when no
// candidate has anything better.
func ExtractRating(doc Document) *float64 {
	var zero *float64
	rating := firstParsed(doc, ratingSelectors, func(text string) *float64 {
		r := ParseRating(text)
		if r != nil && *r == 0 {
			if zero == nil {
				zero = r
			}
			return nil
		}
		return r
	})
	if rating != nil {
		return rating
	}
	return zero
}

// ExtractReviewCount tries the known review-count locations, then any span or
// anchor whose text mentions reviews.
func ExtractReviewCount(doc Document) *int {
	if count := firstParsed(doc, reviewSelectors, ParseReviewCount); count != nil {
		return count
	}

	var found *int
	doc.Find("span, a").Each(func(_ int, s Selection) {
		if found != nil {
			return
		}
		text := CleanText(s.Text())
		if !strings.Contains(strings.ToLower(text), "review") {
			return
		}
		found = ParseReviewCount(text)
	})
	return found
}
