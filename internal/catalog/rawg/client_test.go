package rawg

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/recshelf/recshelf/internal/catalog"
	"github.com/recshelf/recshelf/internal/config"
	"github.com/recshelf/recshelf/internal/media"
)

func newTestClient(server *httptest.Server) *Client {
	cfg := config.RAWGConfig{
		APIKey:  "test-api-key",
		BaseURL: server.URL,
		Timeout: 5,
	}
	return NewClient(cfg, zerolog.Nop())
}

func TestClient_IsConfigured(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   bool
	}{
		{"with key", "abc123", true},
		{"without key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(config.RAWGConfig{APIKey: tt.apiKey}, zerolog.Nop())
			if got := client.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_SearchByTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if search := r.URL.Query().Get("search"); search != "Witcher" {
			t.Errorf("unexpected search: %s", search)
		}
		if key := r.URL.Query().Get("key"); key != "test-api-key" {
			t.Errorf("unexpected key: %s", key)
		}

		json.NewEncoder(w).Encode(ListResponse{
			Count: 1,
			Results: []Result{
				{
					ID:              3328,
					Name:            "The Witcher 3: Wild Hunt",
					Released:        "2015-05-18",
					BackgroundImage: "https://media.rawg.io/witcher3.jpg",
					Rating:          4.66,
					Genres:          []Genre{{ID: 4, Name: "Action"}, {ID: 5, Name: "RPG"}},
					Platforms: []PlatformWrapper{
						{Platform: Platform{ID: 4, Name: "PC"}},
						{Platform: Platform{ID: 187, Name: "PlayStation 5"}},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	item, err := client.SearchByTitle(context.Background(), "Witcher")
	if err != nil {
		t.Fatalf("SearchByTitle() error = %v", err)
	}
	if item == nil {
		t.Fatal("SearchByTitle() returned nil item")
	}

	if item.ID != "3328" {
		t.Errorf("ID = %q, want %q", item.ID, "3328")
	}
	if item.MediaType != media.TypeGame {
		t.Errorf("MediaType = %q, want %q", item.MediaType, media.TypeGame)
	}
	if len(item.Genres) != 2 || item.Genres[1] != "RPG" {
		t.Errorf("Genres = %v", item.Genres)
	}
	if len(item.Platforms) != 2 || item.Platforms[0] != "PC" {
		t.Errorf("Platforms = %v", item.Platforms)
	}
	if item.Rating != 4.66 {
		t.Errorf("Rating = %v, want 4.66", item.Rating)
	}
}

func TestClient_GetSimilar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games/3328/suggested" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if pageSize := r.URL.Query().Get("page_size"); pageSize != "10" {
			t.Errorf("unexpected page_size: %s", pageSize)
		}

		json.NewEncoder(w).Encode(ListResponse{
			Count: 2,
			Results: []Result{
				{ID: 41494, Name: "Cyberpunk 2077"},
				{ID: 28, Name: "Red Dead Redemption 2"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	items, err := client.GetSimilar(context.Background(), "3328", 10)
	if err != nil {
		t.Fatalf("GetSimilar() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != "41494" {
		t.Errorf("items[0].ID = %q, want %q", items[0].ID, "41494")
	}
}

func TestClient_GetTrending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if ordering := r.URL.Query().Get("ordering"); ordering != "-added" {
			t.Errorf("unexpected ordering: %s", ordering)
		}
		if dates := r.URL.Query().Get("dates"); dates == "" {
			t.Error("missing dates filter")
		}

		json.NewEncoder(w).Encode(ListResponse{
			Count:   1,
			Results: []Result{{ID: 1, Name: "Popular Game"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	items, err := client.GetTrending(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetTrending() error = %v", err)
	}
	if len(items) != 1 || items[0].Title != "Popular Game" {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestClient_GetByID_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Detail: "Not found."})
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.GetByID(context.Background(), "999999999")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient(config.RAWGConfig{}, zerolog.Nop())
	_, err := client.GetSimilar(context.Background(), "3328", 10)
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("GetSimilar() error = %v, want ErrAPIKeyMissing", err)
	}
}
