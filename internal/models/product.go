package models

import (
	"fmt"
	"time"
)

const (
	DefaultCategory    = "general"
	DefaultDescription = "No product description available"
)

// ProductRecord is the best-effort result of a single extraction.
// Nil pointers mean the field could not be recovered from the page.
type ProductRecord struct {
	ASIN         string    `json:"asin"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Keywords     []string  `json:"keywords"`
	Category     string    `json:"category"`
	TargetMarket string    `json:"targetMarket"`
	Price        *float64  `json:"price"`
	Currency     string    `json:"currency"`
	Images       []string  `json:"images"`
	Reviews      *int      `json:"reviews"`
	Rating       *float64  `json:"rating"`
	SourceURL    string    `json:"amazonUrl"`
	Site         string    `json:"site"`
	ExtractedAt  time.Time `json:"extractedAt"`
}

// SiteDescriptor identifies a regional storefront.
type SiteDescriptor struct {
	Domain   string `json:"domain"`
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
}

func NewProductRecord(asin string) *ProductRecord {
	return &ProductRecord{
		ASIN:        asin,
		Category:    DefaultCategory,
		Keywords:    make([]string, 0),
		Images:      make([]string, 0),
		ExtractedAt: time.Now(),
	}
}

// PlaceholderTitle is used when no title location yields text.
func PlaceholderTitle(asin string) string {
	return fmt.Sprintf("Amazon product %s", asin)
}

// ApplyDefaults fills the fields that must never be empty.
func (p *ProductRecord) ApplyDefaults() {
	if p.Title == "" {
		p.Title = PlaceholderTitle(p.ASIN)
	}
	if p.Description == "" {
		p.Description = DefaultDescription
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Keywords == nil {
		p.Keywords = make([]string, 0)
	}
	if p.Images == nil {
		p.Images = make([]string, 0)
	}
}

// MissingFields lists the fields that degraded to their null/default value.
func (p *ProductRecord) MissingFields() []string {
	var missing []string

	if p.Title == PlaceholderTitle(p.ASIN) {
		missing = append(missing, "title")
	}
	if p.Description == DefaultDescription {
		missing = append(missing, "description")
	}
	if p.Price == nil {
		missing = append(missing, "price")
	}
	if p.Rating == nil {
		missing = append(missing, "rating")
	}
	if p.Reviews == nil {
		missing = append(missing, "reviews")
	}
	if len(p.Images) == 0 {
		missing = append(missing, "images")
	}
	if p.Category == DefaultCategory {
		missing = append(missing, "category")
	}
	if len(p.Keywords) == 0 {
		missing = append(missing, "keywords")
	}

	return missing
}
