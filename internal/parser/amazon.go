package parser

import (
	"log/slog"

	"github.com/maltedev/listing-extractor/internal/models"
)

// PageContext is what the parser knows about a page besides its markup.
type PageContext struct {
	ASIN         string
	Site         models.SiteDescriptor
	TargetMarket string
	SourceURL    string
}

type AmazonParser struct {
	logger *slog.Logger
}

func NewAmazonParser(logger *slog.Logger) *AmazonParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &AmazonParser{logger: logger.With("component", "parser")}
}

// ParseProductPage parses html, rejects challenge pages with models.ErrAntiBot
// and otherwise returns a record. Missing fields never cause an error.
func (p *AmazonParser) ParseProductPage(html string, page PageContext) (*models.ProductRecord, error) {
	doc, err := NewDocument(html)
	if err != nil {
		return nil, err
	}

	if err := DetectChallenge(doc, html); err != nil {
		return nil, err
	}

	product := p.Extract(doc, page)

	if missing := product.MissingFields(); len(missing) > 0 {
		p.logger.Debug("fields not found", "asin", page.ASIN, "missing", missing)
	}
	return product, nil
}

// Extract runs every field extractor against doc and assembles the record.
func (p *AmazonParser) Extract(doc Document, page PageContext) *models.ProductRecord {
	product := models.NewProductRecord(page.ASIN)
	product.TargetMarket = page.TargetMarket
	product.SourceURL = page.SourceURL
	product.Site = page.Site.Domain
	product.Currency = page.Site.Currency

	product.Title = ExtractTitle(doc)
	product.Description = ExtractDescription(doc)
	product.Price = ExtractPrice(doc)
	product.Rating = ExtractRating(doc)
	product.Reviews = ExtractReviewCount(doc)
	product.Images = ExtractImages(doc, page.Site.Domain)
	product.Category = InferCategory(product.Title, product.Description)
	product.Keywords = ExtractKeywords(product.Title, product.Description)

	product.ApplyDefaults()
	return product
}
