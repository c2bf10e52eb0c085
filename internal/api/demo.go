package api

import (
	"time"

	"github.com/maltedev/listing-extractor/internal/models"
)

// DemoProduct is the canned record served in demo mode.
func DemoProduct(rawURL, targetMarket string) *models.ProductRecord {
	price := 69.99
	rating := 4.6
	reviews := 15420

	return &models.ProductRecord{
		ASIN:  "B075CYMYK6",
		Title: "Instant Pot Duo Plus 9-in-1 Electric Pressure Cooker, Slow Cooker, Rice Cooker, Steamer, Saute, Yogurt Maker, Warmer & Sterilizer, 6 Quart, Stainless Steel/Black",
		Description: "The Instant Pot Duo Plus is a 9-in-1 multi-use programmable cooker that replaces 9 kitchen appliances: " +
			"pressure cooker, slow cooker, rice cooker, steamer, saute pan, yogurt maker, sterilizer, warmer, and sous vide.",
		Keywords: []string{
			"instant", "pot", "duo", "plus", "electric",
			"pressure", "cooker", "slow", "rice", "steamer",
		},
		Category:     "home",
		TargetMarket: targetMarket,
		Price:        &price,
		Currency:     "USD",
		Images:       []string{"https://m.media-amazon.com/images/I/71T1770jSML.jpg"},
		Reviews:      &reviews,
		Rating:       &rating,
		SourceURL:    rawURL,
		Site:         "amazon.com",
		ExtractedAt:  time.Now(),
	}
}
