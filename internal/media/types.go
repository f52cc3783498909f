package media

import (
	"fmt"
	"strings"
)

// Type identifies which catalog backend and recommendation strategy apply.
type Type string

const (
	TypeMovie Type = "movie"
	TypeTV    Type = "tv"
	TypeGame  Type = "game"
	TypeBook  Type = "book"
)

// AllTypes returns the fixed aggregation order for the multi-media view.
func AllTypes() []Type {
	return []Type{TypeMovie, TypeTV, TypeGame, TypeBook}
}

// ParseType validates and normalizes a media type string.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeMovie:
		return TypeMovie, nil
	case TypeTV:
		return TypeTV, nil
	case TypeGame:
		return TypeGame, nil
	case TypeBook:
		return TypeBook, nil
	default:
		return "", fmt.Errorf("unknown media type %q", s)
	}
}

// Item is the normalized catalog record shared across all backends.
// IDs are source-native and collide across media types; (ID, MediaType)
// is the only uniqueness key.
type Item struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Cover       string   `json:"cover,omitempty"`
	MediaType   Type     `json:"mediaType"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	Genres      []string `json:"genres"`
	Overview    string   `json:"overview,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
	Author      string   `json:"author,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
}

// Key returns the composite dedup key for this item.
func (i Item) Key() string {
	return string(i.MediaType) + ":" + i.ID
}
