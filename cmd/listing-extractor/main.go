// Package main provides the listing-extractor CLI.
//
// Usage:
//
//	listing-extractor serve
//	listing-extractor extract <product-url> --market US
//	listing-extractor batch --file urls.txt
//	listing-extractor sites
package main

func main() {
	Execute()
}
