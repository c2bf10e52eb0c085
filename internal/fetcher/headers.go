package fetcher

import (
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/maltedev/listing-extractor/internal/models"
)

func defaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 14.4; rv:125.0) Gecko/20100101 Firefox/125.0",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.0.0",
	}
}

// DefaultUserAgents returns the built-in desktop user-agent pool.
func DefaultUserAgents() []string {
	return defaultUserAgents()
}

// AcceptLanguage builds an Accept-Language value preferring the storefront locale.
func AcceptLanguage(locale string) string {
	if locale == "" {
		return "en-US,en;q=0.5"
	}

	lang, _, _ := strings.Cut(locale, "-")
	if lang == "en" {
		return locale + ",en;q=0.9"
	}
	return locale + "," + lang + ";q=0.9,en;q=0.8"
}

// BuildHeaders returns a browser-like header set with a randomly picked user agent.
func BuildHeaders(site models.SiteDescriptor, userAgents []string) http.Header {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents()
	}

	h := http.Header{}
	h.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", AcceptLanguage(site.Locale))
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("DNT", "1")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Cache-Control", "max-age=0")
	return h
}
