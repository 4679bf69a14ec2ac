package api

// Movie is one fully parsed dataset row, as produced by an ingestion source.
// Field values are raw: the store cleans and normalizes them on insert.
type Movie struct {
	// Title is the display title. Its normalized form is the primary key.
	Title string `json:"title"`
	// Director is indexed alongside actors and genres.
	Director string `json:"director,omitempty"`
	Year     int    `json:"year,omitempty"`
	// Rating is the score on a 0-10 scale.
	Rating   float64 `json:"rating,omitempty"`
	Duration int     `json:"duration,omitempty"` // minutes
	// Actors in billing order. Duplicates are dropped on insert.
	Actors []string `json:"actors,omitempty"`
	// Genres in source order. Duplicates are dropped on insert.
	Genres []string `json:"genres,omitempty"`
}
