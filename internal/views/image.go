package views

import "strings"

// PlaceholderImage is shown whenever an entry has no image of its own.
const PlaceholderImage = "https://images.unsplash.com/photo-1552820728-8b83bb6b773f?w=800&q=80"

// ImageSize is the catalog image variant a thumbnail is widened to.
type ImageSize string

const (
	// SizeSchedule is used for schedule cards.
	SizeSchedule ImageSize = "t_1080p"
	// SizeCard is used for the tracked games grid and table.
	SizeCard ImageSize = "t_720p"
)

// NormalizeImage turns a raw catalog image reference into a displayable URL:
// protocol-relative URLs get https, the thumbnail segment is widened to size
// and a trailing .jpg becomes .png. Empty input yields PlaceholderImage.
// Applying it to its own output returns the output unchanged.
func NormalizeImage(raw string, size ImageSize) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PlaceholderImage
	}

	url := raw
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}
	url = strings.Replace(url, "/t_thumb/", "/"+string(size)+"/", 1)
	if strings.HasSuffix(url, ".jpg") {
		url = strings.TrimSuffix(url, ".jpg") + ".png"
	}
	return url
}

// NormalizeImagePtr is NormalizeImage for optional columns. It keeps nil as nil
// so that a missing image is stored as missing.
func NormalizeImagePtr(raw *string, size ImageSize) *string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	url := NormalizeImage(*raw, size)
	return &url
}
