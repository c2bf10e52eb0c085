package parser

import (
	"fmt"
	"strings"

	"github.com/maltedev/listing-extractor/internal/models"
)

var (
	// Product titles like "iRobot Roomba" must not trip this.
	challengeTitleMarkers = []string{"robot check"}
	challengeBodyMarkers  = []string{"captcha"}

	challengeSelectors = []string{
		"#captchacharacters",
		"form[action*='Captcha']",
	}
)

// DetectChallenge reports models.ErrAntiBot when the page is a bot-check
// interstitial rather than a product page.
func DetectChallenge(doc Document, html string) error {
	title := strings.ToLower(firstText(doc, "title"))
	for _, marker := range challengeTitleMarkers {
		if strings.Contains(title, marker) {
			return fmt.Errorf("%w: title contains %q", models.ErrAntiBot, marker)
		}
	}

	for _, marker := range challengeBodyMarkers {
		if strings.Contains(html, marker) {
			return fmt.Errorf("%w: page contains %q", models.ErrAntiBot, marker)
		}
	}

	for _, selector := range challengeSelectors {
		if doc.Find(selector).Len() > 0 {
			return fmt.Errorf("%w: matched %s", models.ErrAntiBot, selector)
		}
	}

	return nil
}
