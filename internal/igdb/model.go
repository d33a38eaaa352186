package igdb

import "github.com/JoaoGSDC/streamline-app/internal/views"

type named struct {
	Name string `json:"name"`
}

type image struct {
	URL string `json:"url"`
}

// Game is a catalog entry as the IGDB API returns it.
type Game struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Cover        *image  `json:"cover,omitempty"`
	Screenshots  []image `json:"screenshots,omitempty"`
	Summary      string  `json:"summary,omitempty"`
	Genres       []named `json:"genres,omitempty"`
	Platforms    []named `json:"platforms,omitempty"`
	ReleaseDates []struct {
		Date int64 `json:"date"`
	} `json:"release_dates,omitempty"`
	Websites []struct {
		URL string `json:"url"`
	} `json:"websites,omitempty"`
	Videos []struct {
		VideoID string `json:"video_id"`
	} `json:"videos,omitempty"`
}

// Details is the display form of one catalog entry.
type Details struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Image       string            `json:"image"`
	Synopsis    string            `json:"synopsis"`
	Genre       []string          `json:"genre"`
	Platform    string            `json:"platform"`
	ReleaseDate string            `json:"releaseDate"`
	Website     string            `json:"website"`
	StoreLinks  []views.StoreLink `json:"storeLinks"`
	Websites    []string          `json:"websites"`
}
