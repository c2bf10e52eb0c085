package parser

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
)

const maxImages = 5

var imageSelectors = []string{
	"#landingImage",
	`img[data-a-image-name="landingImage"]`,
	".imgTagWrapper img",
	"#imageBlock img",
	".a-dynamic-image",
	"img[data-old-hires]",
	`img[src*="images-amazon"]`,
}

// Attributes in the order they are tried on each element.
var imageAttributes = []string{
	"data-src",
	"src",
	"data-old-hires",
	"data-a-dynamic-image",
}

var imageHosts = []string{
	"images-amazon.com",
	"ssl-images-amazon.com",
	"media-amazon.com",
}

// ._AC_SX679_. and friends request a resized rendition.
var resizeSuffixRe = regexp.MustCompile(`\._[A-Z0-9,_]+_\.`)

// ExtractImages collects up to five absolute CDN image URLs. Relative
// references are resolved against domain.
func ExtractImages(doc Document, domain string) []string {
	images := make([]string, 0, maxImages)
	seen := make(map[string]struct{})

	for _, selector := range imageSelectors {
		doc.Find(selector).Each(func(_ int, s Selection) {
			if len(images) >= maxImages {
				return
			}
			src := imageFromElement(s, domain)
			if src == "" {
				return
			}
			if _, dup := seen[src]; dup {
				return
			}
			seen[src] = struct{}{}
			images = append(images, src)
		})
		if len(images) >= maxImages {
			break
		}
	}

	return images
}

func imageFromElement(s Selection, domain string) string {
	for _, attr := range imageAttributes {
		raw, ok := s.Attr(attr)
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			continue
		}

		candidates := []string{raw}
		if attr == "data-a-dynamic-image" {
			candidates = dynamicImageURLs(raw)
		}

		for _, candidate := range candidates {
			if src := normalizeImageURL(candidate, domain); src != "" {
				return src
			}
		}
	}
	return ""
}

// dynamicImageURLs decodes the {"url": [w, h], ...} map keeping document order.
func dynamicImageURLs(raw string) []string {
	dec := json.NewDecoder(strings.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var urls []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return urls
		}
		key, ok := tok.(string)
		if !ok {
			return urls
		}
		var dims json.RawMessage
		if err := dec.Decode(&dims); err != nil {
			return urls
		}
		urls = append(urls, key)
	}
	return urls
}

// normalizeImageURL returns an absolute URL on an allowed image host with any
// resize suffix removed, or "" when src cannot be used.
func normalizeImageURL(src, domain string) string {
	switch {
	case strings.HasPrefix(src, "data:"):
		return ""
	case strings.HasPrefix(src, "//"):
		src = "https:" + src
	case strings.HasPrefix(src, "/"):
		src = "https://www." + domain + src
	}

	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	if !allowedImageHost(u.Hostname()) {
		return ""
	}

	return resizeSuffixRe.ReplaceAllString(u.String(), ".")
}

func allowedImageHost(host string) bool {
	host = strings.ToLower(host)
	for _, allowed := range imageHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
