package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/maltedev/listing-extractor/internal/models"
	"golang.org/x/sync/errgroup"
)

// Extractor is the single-URL entry point a batch fans out over.
type Extractor interface {
	Extract(ctx context.Context, rawURL, targetMarket string) (*models.ProductRecord, error)
}

// BatchResult is the outcome for one input URL.
type BatchResult struct {
	URL     string                `json:"url"`
	Product *models.ProductRecord `json:"data,omitempty"`
	Kind    models.Kind           `json:"kind,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// BatchScraper extracts many URLs with bounded concurrency.
type BatchScraper struct {
	extractor   Extractor
	concurrency int
	logger      *slog.Logger
}

func NewBatchScraper(extractor Extractor, concurrency int, logger *slog.Logger) *BatchScraper {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchScraper{
		extractor:   extractor,
		concurrency: concurrency,
		logger:      logger.With("component", "batch"),
	}
}

// Run returns one result per URL in input order. A failed URL does not stop
// the others; only cancellation of ctx ends the batch early.
func (b *BatchScraper) Run(ctx context.Context, urls []string, targetMarket string) ([]BatchResult, error) {
	b.logger.Info("starting batch", "total", len(urls), "concurrency", b.concurrency)
	start := time.Now()

	results := make([]BatchResult, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, rawURL := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result := BatchResult{URL: rawURL}
			product, err := b.extractor.Extract(ctx, rawURL, targetMarket)
			if err != nil {
				result.Kind = models.KindOf(err)
				result.Error = err.Error()
			} else {
				result.Product = product
			}

			// each goroutine owns index i
			results[i] = result
			return nil
		})
	}

	err := g.Wait()

	b.logger.Info("batch complete", "total", len(urls), "elapsed", time.Since(start))
	return results, err
}
