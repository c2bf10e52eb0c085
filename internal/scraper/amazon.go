package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maltedev/listing-extractor/internal/fetcher"
	"github.com/maltedev/listing-extractor/internal/models"
	"github.com/maltedev/listing-extractor/internal/parser"
	"github.com/maltedev/listing-extractor/internal/ratelimit"
	"github.com/maltedev/listing-extractor/internal/resolver"
)

type AmazonScraper struct {
	fetcher fetcher.Fetcher
	parser  *parser.AmazonParser
	policy  RetryPolicy
	jitter  *ratelimit.Jitter
	logger  *slog.Logger
}

func NewAmazonScraper(f fetcher.Fetcher, p *parser.AmazonParser, policy RetryPolicy, logger *slog.Logger) *AmazonScraper {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	return &AmazonScraper{
		fetcher: f,
		parser:  p,
		policy:  policy,
		jitter:  ratelimit.NewJitter(policy.MinDelay, policy.MaxDelay),
		logger:  logger.With("component", "scraper"),
	}
}

// WithJitter replaces the delay source between attempts.
func (s *AmazonScraper) WithJitter(j *ratelimit.Jitter) *AmazonScraper {
	s.jitter = j
	return s
}

// ScrapeProduct makes a single attempt. Errors wrap the models sentinels.
func (s *AmazonScraper) ScrapeProduct(ctx context.Context, rawURL, targetMarket string) (*models.ProductRecord, error) {
	asin, err := resolver.ExtractIdentifier(rawURL)
	if err != nil {
		return nil, err
	}

	site, err := resolver.ResolveSite(rawURL)
	if err != nil {
		return nil, err
	}

	productURL := resolver.CanonicalURL(site, asin)
	s.logger.Info("scraping product", "asin", asin, "site", site.Domain, "url", productURL)

	body, err := s.fetcher.Fetch(ctx, productURL, site)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product page: %w", err)
	}

	product, err := s.parser.ParseProductPage(string(body), parser.PageContext{
		ASIN:         asin,
		Site:         site,
		TargetMarket: targetMarket,
		SourceURL:    rawURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	return product, nil
}

// ScrapeWithRetry repeats ScrapeProduct while the failure is retryable and
// attempts remain, sleeping a random jitter in between. The terminal failure
// is returned as *models.Error.
func (s *AmazonScraper) ScrapeWithRetry(ctx context.Context, rawURL, targetMarket string) (*models.ProductRecord, error) {
	var (
		lastErr  error
		attempts int
	)

	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay, err := s.jitter.Wait(ctx)
			if err != nil {
				s.logger.Warn("retry aborted", "url", rawURL, "error", err)
				break
			}
			s.logger.Info("retrying after jitter", "url", rawURL, "attempt", attempt, "delay", delay)
		}

		attempts = attempt
		start := time.Now()
		product, err := s.ScrapeProduct(ctx, rawURL, targetMarket)
		if err == nil {
			s.logger.Info("product extracted",
				"asin", product.ASIN,
				"attempt", attempt,
				"duration", time.Since(start),
			)
			return product, nil
		}

		lastErr = err
		kind := models.KindOf(err)
		s.logger.Warn("scrape attempt failed",
			"url", rawURL,
			"attempt", attempt,
			"kind", kind,
			"error", err,
		)

		if !s.policy.shouldRetry(kind) {
			break
		}
	}

	return nil, &models.Error{
		Kind:     models.KindOf(lastErr),
		URL:      rawURL,
		Attempts: attempts,
		Err:      lastErr,
	}
}
