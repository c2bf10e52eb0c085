// Package resolver maps a product URL to its catalog identifier and storefront.
package resolver

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/maltedev/listing-extractor/internal/models"
)

var identifierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/dp/([A-Z0-9]{10})`),
	regexp.MustCompile(`/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`/gp/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`/ASIN/([A-Z0-9]{10})`),
}

var sites = []models.SiteDescriptor{
	{Domain: "amazon.com", Currency: "USD", Locale: "en-US"},
	{Domain: "amazon.co.uk", Currency: "GBP", Locale: "en-GB"},
	{Domain: "amazon.de", Currency: "EUR", Locale: "de-DE"},
	{Domain: "amazon.fr", Currency: "EUR", Locale: "fr-FR"},
	{Domain: "amazon.co.jp", Currency: "JPY", Locale: "ja-JP"},
	{Domain: "amazon.ca", Currency: "CAD", Locale: "en-CA"},
	{Domain: "amazon.com.au", Currency: "AUD", Locale: "en-AU"},
	{Domain: "amazon.in", Currency: "INR", Locale: "en-IN"},
}

// Sites returns a copy of the storefront registry in registry order.
func Sites() []models.SiteDescriptor {
	out := make([]models.SiteDescriptor, len(sites))
	copy(out, sites)
	return out
}

// ExtractIdentifier returns the first 10-character catalog code found in the URL path.
func ExtractIdentifier(rawURL string) (string, error) {
	for _, pattern := range identifierPatterns {
		if matches := pattern.FindStringSubmatch(rawURL); len(matches) > 1 {
			return matches[1], nil
		}
	}
	return "", fmt.Errorf("%w: %s", models.ErrIdentifierNotFound, rawURL)
}

// ResolveSite matches the URL host against the registry. The longest matching
// domain wins, so amazon.com.au never resolves to amazon.com.
func ResolveSite(rawURL string) (models.SiteDescriptor, error) {
	host := hostOf(rawURL)
	if host == "" {
		return models.SiteDescriptor{}, fmt.Errorf("%w: cannot parse host from %q", models.ErrUnsupportedSite, rawURL)
	}

	var candidates []models.SiteDescriptor
	for _, site := range sites {
		if host == site.Domain || strings.HasSuffix(host, "."+site.Domain) {
			candidates = append(candidates, site)
		}
	}
	if len(candidates) == 0 {
		return models.SiteDescriptor{}, fmt.Errorf("%w: %s", models.ErrUnsupportedSite, host)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].Domain) > len(candidates[j].Domain)
	})
	return candidates[0], nil
}

// CanonicalURL is the shortest product URL for an identifier on a storefront.
func CanonicalURL(site models.SiteDescriptor, asin string) string {
	return fmt.Sprintf("https://www.%s/dp/%s", site.Domain, asin)
}

func hostOf(rawURL string) string {
	candidate := strings.TrimSpace(rawURL)
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}
