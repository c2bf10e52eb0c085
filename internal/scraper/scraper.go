// Package scraper runs resolve, fetch and parse for a product URL and retries
// transient failures.
package scraper

import (
	"context"
	"time"

	"github.com/maltedev/listing-extractor/internal/models"
)

// Scraper extracts one product record from a product URL.
type Scraper interface {
	ScrapeProduct(ctx context.Context, rawURL, targetMarket string) (*models.ProductRecord, error)
	ScrapeWithRetry(ctx context.Context, rawURL, targetMarket string) (*models.ProductRecord, error)
}

// RetryPolicy bounds ScrapeWithRetry.
type RetryPolicy struct {
	MaxAttempts int
	MinDelay    time.Duration
	MaxDelay    time.Duration
	// RetryAntiBot controls whether a challenge page gets another attempt.
	RetryAntiBot bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  2,
		MinDelay:     500 * time.Millisecond,
		MaxDelay:     1500 * time.Millisecond,
		RetryAntiBot: true,
	}
}

func (p RetryPolicy) shouldRetry(kind models.Kind) bool {
	if !kind.Retryable() {
		return false
	}
	if kind == models.KindAntiBot {
		return p.RetryAntiBot
	}
	return true
}
