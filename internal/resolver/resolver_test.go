package resolver

import (
	"testing"

	"github.com/maltedev/listing-extractor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
		hasError bool
	}{
		{"dp path", "https://www.amazon.com/dp/ABCDEFGHIJ", "ABCDEFGHIJ", false},
		{"dp with slug and query", "https://www.amazon.com/Instant-Pot-Duo/dp/B075CYMYK6/ref=sr_1_1?keywords=pot", "B075CYMYK6", false},
		{"product path", "https://www.amazon.de/product/B08N5WRWNW", "B08N5WRWNW", false},
		{"gp product path", "https://www.amazon.co.uk/gp/product/B07XJ8C8F5?th=1", "B07XJ8C8F5", false},
		{"ASIN path", "https://www.amazon.co.jp/ASIN/B01N5IB20Q", "B01N5IB20Q", false},
		{"dp wins over later patterns", "https://www.amazon.com/gp/product/B000000001/dp/B000000002", "B000000002", false},
		{"lowercase id is not an identifier", "https://www.amazon.com/dp/abcdefghij", "", true},
		{"too short", "https://www.amazon.com/dp/B07XJ8", "", true},
		{"search page", "https://www.amazon.com/s?k=shoes", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ExtractIdentifier(tt.url)
			if tt.hasError {
				assert.ErrorIs(t, err, models.ErrIdentifierNotFound)
				assert.Empty(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestResolveSite(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected models.SiteDescriptor
	}{
		{"us", "https://www.amazon.com/dp/ABCDEFGHIJ", models.SiteDescriptor{Domain: "amazon.com", Currency: "USD", Locale: "en-US"}},
		{"bare host", "https://amazon.de/dp/ABCDEFGHIJ", models.SiteDescriptor{Domain: "amazon.de", Currency: "EUR", Locale: "de-DE"}},
		{"australia is not us", "https://www.amazon.com.au/dp/ABCDEFGHIJ", models.SiteDescriptor{Domain: "amazon.com.au", Currency: "AUD", Locale: "en-AU"}},
		{"japan", "https://www.amazon.co.jp/dp/ABCDEFGHIJ", models.SiteDescriptor{Domain: "amazon.co.jp", Currency: "JPY", Locale: "ja-JP"}},
		{"uppercase host without scheme", "WWW.AMAZON.CO.UK/dp/ABCDEFGHIJ", models.SiteDescriptor{Domain: "amazon.co.uk", Currency: "GBP", Locale: "en-GB"}},
		{"smile subdomain", "https://smile.amazon.in/dp/ABCDEFGHIJ", models.SiteDescriptor{Domain: "amazon.in", Currency: "INR", Locale: "en-IN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site, err := ResolveSite(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, site)
		})
	}
}

func TestResolveSiteUnsupported(t *testing.T) {
	urls := []string{
		"https://www.ebay.com/itm/123",
		"https://www.amazon.es/dp/ABCDEFGHIJ",
		"https://notamazon.com/dp/ABCDEFGHIJ",
		"https://amazon.com.evil.io/dp/ABCDEFGHIJ",
		"",
	}

	for _, u := range urls {
		site, err := ResolveSite(u)
		assert.ErrorIs(t, err, models.ErrUnsupportedSite, u)
		assert.Equal(t, models.SiteDescriptor{}, site, "no partial descriptor for %q", u)
	}
}

func TestSitesIsACopy(t *testing.T) {
	list := Sites()
	require.Len(t, list, 8)
	list[0].Domain = "mutated.example"

	assert.Equal(t, "amazon.com", Sites()[0].Domain)
}

func TestCanonicalURL(t *testing.T) {
	site := models.SiteDescriptor{Domain: "amazon.de", Currency: "EUR", Locale: "de-DE"}
	assert.Equal(t, "https://www.amazon.de/dp/B08N5WRWNW", CanonicalURL(site, "B08N5WRWNW"))
}
