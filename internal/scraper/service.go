package scraper

import (
	"context"
	"log/slog"

	"github.com/maltedev/listing-extractor/internal/events"
	"github.com/maltedev/listing-extractor/internal/models"
)

// Service runs ScrapeWithRetry and reports every terminal outcome to the
// event publisher.
type Service struct {
	scraper   Scraper
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(s Scraper, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		scraper:   s,
		publisher: publisher,
		logger:    logger.With("component", "service"),
	}
}

// Extract returns the record for rawURL or a *models.Error. Publishing
// failures are logged and never change the result.
func (s *Service) Extract(ctx context.Context, rawURL, targetMarket string) (*models.ProductRecord, error) {
	product, err := s.scraper.ScrapeWithRetry(ctx, rawURL, targetMarket)
	if err != nil {
		if pubErr := s.publisher.PublishExtractionFailed(ctx, rawURL, targetMarket, err); pubErr != nil {
			s.logger.Warn("failed to publish failure event", "url", rawURL, "error", pubErr)
		}
		return nil, err
	}

	if pubErr := s.publisher.PublishProductExtracted(ctx, product); pubErr != nil {
		s.logger.Warn("failed to publish product event", "asin", product.ASIN, "error", pubErr)
	}
	return product, nil
}
