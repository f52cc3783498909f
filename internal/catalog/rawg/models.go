package rawg

// ListResponse is the RAWG paged list envelope.
type ListResponse struct {
	Count   int      `json:"count"`
	Results []Result `json:"results"`
}

// Result represents one game from a RAWG list or details endpoint. The
// details payload is a superset of the list entry, so one struct serves both.
type Result struct {
	ID              int               `json:"id"`
	Name            string            `json:"name"`
	Released        string            `json:"released"`
	BackgroundImage string            `json:"background_image"`
	Rating          float64           `json:"rating"`
	Genres          []Genre           `json:"genres"`
	Platforms       []PlatformWrapper `json:"platforms"`
}

// Genre represents a RAWG genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PlatformWrapper represents RAWG's nested platform entry.
type PlatformWrapper struct {
	Platform Platform `json:"platform"`
}

// Platform represents a gaming platform.
type Platform struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ErrorResponse represents a RAWG API error payload.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
