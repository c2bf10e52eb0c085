package parser

import (
	"log/slog"
	"testing"

	"github.com/maltedev/listing-extractor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usPage = PageContext{
	ASIN:         "B075CYMYK6",
	Site:         models.SiteDescriptor{Domain: "amazon.com", Currency: "USD", Locale: "en-US"},
	TargetMarket: "US",
	SourceURL:    "https://www.amazon.com/dp/B075CYMYK6",
}

const fullProductPage = `<html>
<head><title>Amazon.com: Instant Pot Duo</title></head>
<body>
<div id="dp">
	<span id="productTitle">
		Instant Pot Duo 7-in-1 Electric Pressure Cooker, 6 Quart
	</span>
	<div id="feature-bullets">
		<ul>
			<li><span>7-in-1 functionality: pressure cook, slow cook, rice cooker, steamer, saute and warmer.</span></li>
			<li><span>Short</span></li>
			<li><span>Kitchen favorite with 13 one-touch smart programs for ribs, soups, beans and more.</span></li>
		</ul>
	</div>
	<div class="a-price"><span class="a-offscreen">$69.99</span><span aria-hidden="true">$69<sup>99</sup></span></div>
	<span data-hook="average-star-rating"><span class="a-sr-only">4.6 out of 5 stars</span></span>
	<span id="acrCustomerReviewText">15,420 ratings</span>
	<div id="imageBlock">
		<img id="landingImage"
			src="https://m.media-amazon.com/images/I/71V1LrY1MSL._AC_SX679_.jpg"
			data-old-hires="https://m.media-amazon.com/images/I/71V1LrY1MSL._AC_SL1500_.jpg">
		<img src="//images-na.ssl-images-amazon.com/images/I/41abcDEF12L._SS40_.jpg">
	</div>
</div>
</body>
</html>`

func TestParseProductPageFullRecord(t *testing.T) {
	product, err := NewAmazonParser(slog.Default()).ParseProductPage(fullProductPage, usPage)
	require.NoError(t, err)

	assert.Equal(t, "B075CYMYK6", product.ASIN)
	assert.Equal(t, "Instant Pot Duo 7-in-1 Electric Pressure Cooker, 6 Quart", product.Title)
	assert.Equal(t,
		"7-in-1 functionality: pressure cook, slow cook, rice cooker, steamer, saute and warmer.\n"+
			"Kitchen favorite with 13 one-touch smart programs for ribs, soups, beans and more.",
		product.Description)

	require.NotNil(t, product.Price)
	assert.InDelta(t, 69.99, *product.Price, 0.001)
	assert.Equal(t, "USD", product.Currency)

	require.NotNil(t, product.Rating)
	assert.InDelta(t, 4.6, *product.Rating, 0.001)

	require.NotNil(t, product.Reviews)
	assert.Equal(t, 15420, *product.Reviews)

	assert.Equal(t, []string{
		"https://m.media-amazon.com/images/I/71V1LrY1MSL.jpg",
		"https://images-na.ssl-images-amazon.com/images/I/41abcDEF12L.jpg",
	}, product.Images)

	assert.Equal(t, "home", product.Category)
	assert.NotEmpty(t, product.Keywords)
	assert.Equal(t, "instant", product.Keywords[0])

	assert.Equal(t, "US", product.TargetMarket)
	assert.Equal(t, "amazon.com", product.Site)
	assert.Equal(t, usPage.SourceURL, product.SourceURL)
	assert.Empty(t, product.MissingFields())
}

func TestParseProductPageTitleOnly(t *testing.T) {
	html := `<html><head><title>Widget</title></head>
<body><span id="productTitle">  Simple
	Widget  </span></body></html>`

	product, err := NewAmazonParser(slog.Default()).ParseProductPage(html, usPage)
	require.NoError(t, err)

	assert.Equal(t, "Simple Widget", product.Title)
	assert.Nil(t, product.Price)
	assert.Nil(t, product.Rating)
	assert.Nil(t, product.Reviews)
	assert.NotNil(t, product.Images)
	assert.Empty(t, product.Images)
	assert.Equal(t, models.DefaultDescription, product.Description)
	assert.Equal(t, models.DefaultCategory, product.Category)
	assert.Equal(t, []string{"simple", "widget"}, product.Keywords)
}

func TestParseProductPageEmptyBodyUsesPlaceholders(t *testing.T) {
	product, err := NewAmazonParser(nil).ParseProductPage("<html><body></body></html>", usPage)
	require.NoError(t, err)

	assert.Equal(t, "Amazon product B075CYMYK6", product.Title)
	assert.Equal(t, models.DefaultDescription, product.Description)
	assert.Empty(t, product.Keywords)
	assert.ElementsMatch(t,
		[]string{"title", "description", "price", "rating", "reviews", "images", "category", "keywords"},
		product.MissingFields())
}

func TestParseProductPageRejectsChallenge(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		blocked bool
	}{
		{
			name:    "robot check title",
			html:    `<html><head><title>Robot Check</title></head><body>Sorry, we just need to make sure you're not a robot.</body></html>`,
			blocked: true,
		},
		{
			name:    "captcha marker in body",
			html:    `<html><head><title>Amazon.com</title></head><body><script src="/captcha/captcha.js"></script></body></html>`,
			blocked: true,
		},
		{
			name:    "captcha form",
			html:    `<html><head><title>Amazon.com</title></head><body><form action="/errors/validateCaptcha"></form></body></html>`,
			blocked: true,
		},
		{
			name:    "captcha input",
			html:    `<html><head><title>Amazon.com</title></head><body><input id="captchacharacters" name="field-keywords"></body></html>`,
			blocked: true,
		},
		{
			name: "robot in a product title",
			html: `<html><head><title>Amazon.com: iRobot Roomba 694 Robot Vacuum</title></head><body>
				<span id="productTitle">iRobot Roomba 694 Robot Vacuum</span>
				<span class="a-price"><span class="a-offscreen">$274.99</span></span>
			</body></html>`,
			blocked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := NewAmazonParser(slog.Default()).ParseProductPage(tt.html, usPage)
			if !tt.blocked {
				require.NoError(t, err)
				require.NotNil(t, product)
				assert.Equal(t, "iRobot Roomba 694 Robot Vacuum", product.Title)
				require.NotNil(t, product.Price)
				assert.InDelta(t, 274.99, *product.Price, 0.001)
				return
			}
			assert.Nil(t, product)
			assert.ErrorIs(t, err, models.ErrAntiBot)
			assert.Equal(t, models.KindAntiBot, models.KindOf(err))
		})
	}
}
