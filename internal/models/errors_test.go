package models

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"nil", nil, ""},
		{"identifier sentinel", ErrIdentifierNotFound, KindNotFoundIdentifier},
		{"wrapped site sentinel", fmt.Errorf("resolve: %w", ErrUnsupportedSite), KindUnsupportedSite},
		{"wrapped network", fmt.Errorf("%w: %v", ErrNetworkFailure, context.DeadlineExceeded), KindNetworkFailure},
		{"anti bot", ErrAntiBot, KindAntiBot},
		{"upstream status", fmt.Errorf("%w: 503", ErrUpstreamStatus), KindUpstreamStatus},
		{"typed error wins", &Error{Kind: KindAntiBot, Err: errors.New("x")}, KindAntiBot},
		{"wrapped typed error", fmt.Errorf("outer: %w", &Error{Kind: KindNetworkFailure, Err: ErrNetworkFailure}), KindNetworkFailure},
		{"unknown", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestKindRetryable(t *testing.T) {
	assert.True(t, KindNetworkFailure.Retryable())
	assert.True(t, KindAntiBot.Retryable())
	assert.True(t, KindUpstreamStatus.Retryable())
	assert.False(t, KindNotFoundIdentifier.Retryable())
	assert.False(t, KindUnsupportedSite.Retryable())
	assert.False(t, KindUnknown.Retryable())
}

func TestErrorUnwrap(t *testing.T) {
	err := &Error{Kind: KindAntiBot, URL: "https://www.amazon.com/dp/B075CYMYK6", Attempts: 2, Err: ErrAntiBot}

	assert.True(t, errors.Is(err, ErrAntiBot))
	assert.Contains(t, err.Error(), "after 2 attempt(s)")
	assert.Contains(t, err.Error(), "anti_bot")
}

func TestProductRecordDefaults(t *testing.T) {
	p := NewProductRecord("B075CYMYK6")
	p.ApplyDefaults()

	assert.Equal(t, "Amazon product B075CYMYK6", p.Title)
	assert.Equal(t, DefaultDescription, p.Description)
	assert.Equal(t, DefaultCategory, p.Category)
	assert.NotNil(t, p.Images)
	assert.ElementsMatch(t,
		[]string{"title", "description", "price", "rating", "reviews", "images", "category", "keywords"},
		p.MissingFields())
}
