package catalog

import "strings"

// The upstream API sometimes serialises image URLs as JSON array text, e.g. `["https://..."]`.
var imageArtifacts = strings.NewReplacer("[", "", "]", "", `"`, "", `\`, "")

// CleanImageURL returns a usable reference for the first image, falling back to PlaceholderImage.
func CleanImageURL(images []string) string {
	if len(images) == 0 {
		return PlaceholderImage
	}
	cleaned := imageArtifacts.Replace(images[0])
	if !strings.HasPrefix(cleaned, "http") {
		return PlaceholderImage
	}
	return cleaned
}

// WithCleanImages fills CleanImage on every product in place and returns the slice.
func WithCleanImages(products []Product) []Product {
	for i := range products {
		products[i].CleanImage = CleanImageURL(products[i].Images)
	}
	return products
}
