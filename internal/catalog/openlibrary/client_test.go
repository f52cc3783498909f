package openlibrary

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
	cfg := config.OpenLibraryConfig{
		BaseURL:       server.URL,
		CoversBaseURL: "https://covers.openlibrary.org",
		Timeout:       5,
	}
	return NewClient(cfg, zerolog.Nop())
}

func TestClient_IsConfigured(t *testing.T) {
	client := NewClient(config.OpenLibraryConfig{}, zerolog.Nop())
	if !client.IsConfigured() {
		t.Error("IsConfigured() = false, want true (no API key required)")
	}
}

func TestClient_SearchByTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "Dune" {
			t.Errorf("unexpected q: %s", q)
		}

		json.NewEncoder(w).Encode(SearchResponse{
			NumFound: 1,
			Docs: []Doc{
				{
					Key:              "/works/OL893415W",
					Title:            "Dune",
					AuthorName:       []string{"Frank Herbert", "Someone Else"},
					Subject:          []string{"Science fiction"},
					CoverID:          12345,
					FirstPublishYear: 1965,
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	item, err := client.SearchByTitle(context.Background(), "Dune")
	if err != nil {
		t.Fatalf("SearchByTitle() error = %v", err)
	}
	if item == nil {
		t.Fatal("SearchByTitle() returned nil item")
	}

	if item.ID != "OL893415W" {
		t.Errorf("ID = %q, want %q", item.ID, "OL893415W")
	}
	if item.Author != "Frank Herbert" {
		t.Errorf("Author = %q, want %q", item.Author, "Frank Herbert")
	}
	if item.Cover != "https://covers.openlibrary.org/b/id/12345-L.jpg" {
		t.Errorf("Cover = %q", item.Cover)
	}
	if item.ReleaseDate != "1965" {
		t.Errorf("ReleaseDate = %q, want %q", item.ReleaseDate, "1965")
	}
	if item.MediaType != media.TypeBook {
		t.Errorf("MediaType = %q, want %q", item.MediaType, media.TypeBook)
	}
}

func TestClient_SearchByTitle_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(SearchResponse{NumFound: 0, Docs: []Doc{}})
	}))
	defer server.Close()

	client := newTestClient(server)
	item, err := client.SearchByTitle(context.Background(), "zzzzzz")
	if err != nil {
		t.Fatalf("SearchByTitle() error = %v", err)
	}
	if item != nil {
		t.Errorf("SearchByTitle() = %+v, want nil", item)
	}
}

func TestClient_GetWork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/works/OL893415W.json":
			json.NewEncoder(w).Encode(WorkResponse{
				Key:      "/works/OL893415W",
				Title:    "Dune",
				Subjects: []string{"Science fiction", "Deserts"},
				Authors: []WorkAuthorEntry{
					{Author: AuthorRef{Key: "/authors/OL79034A"}},
					{Author: AuthorRef{Key: "/authors/OL9999999A"}},
				},
			})
		case "/authors/OL79034A.json":
			json.NewEncoder(w).Encode(AuthorResponse{Key: "/authors/OL79034A", Name: "Frank Herbert"})
		case "/authors/OL9999999A.json":
			w.WriteHeader(http.StatusNotFound)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(server)
	work, err := client.GetWork(context.Background(), "OL893415W")
	if err != nil {
		t.Fatalf("GetWork() error = %v", err)
	}

	if work.Title != "Dune" {
		t.Errorf("Title = %q, want %q", work.Title, "Dune")
	}
	// The unresolvable second author is skipped, not fatal.
	if len(work.Authors) != 1 || work.Authors[0] != "Frank Herbert" {
		t.Errorf("Authors = %v, want [Frank Herbert]", work.Authors)
	}
	if len(work.Subjects) != 2 {
		t.Errorf("Subjects = %v", work.Subjects)
	}
}

func TestClient_GetWork_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.GetWork(context.Background(), "OL000000W")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetWork() error = %v, want ErrNotFound", err)
	}
}

func TestClient_SearchByAuthor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if author := r.URL.Query().Get("author"); author != "Frank Herbert" {
			t.Errorf("unexpected author: %s", author)
		}
		if limit := r.URL.Query().Get("limit"); limit != "5" {
			t.Errorf("unexpected limit: %s", limit)
		}
		json.NewEncoder(w).Encode(SearchResponse{
			Docs: []Doc{
				{Key: "/works/OL1W", Title: "Dune Messiah"},
				{Key: "/works/OL2W", Title: "Children of Dune"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	items, err := client.SearchByAuthor(context.Background(), "Frank Herbert", 5)
	if err != nil {
		t.Fatalf("SearchByAuthor() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != "OL1W" {
		t.Errorf("items[0].ID = %q, want %q", items[0].ID, "OL1W")
	}
}

func TestClient_SearchBySubject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subject := r.URL.Query().Get("subject"); subject != "Science fiction" {
			t.Errorf("unexpected subject: %s", subject)
		}
		json.NewEncoder(w).Encode(SearchResponse{
			Docs: []Doc{{Key: "/works/OL3W", Title: "Foundation"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	items, err := client.SearchBySubject(context.Background(), "Science fiction", 5)
	if err != nil {
		t.Fatalf("SearchBySubject() error = %v", err)
	}
	if len(items) != 1 || items[0].Title != "Foundation" {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestClient_GetSimilar_Unsupported(t *testing.T) {
	client := NewClient(config.OpenLibraryConfig{}, zerolog.Nop())
	_, err := client.GetSimilar(context.Background(), "OL1W", 10)
	if !errors.Is(err, catalog.ErrUnsupported) {
		t.Errorf("GetSimilar() error = %v, want ErrUnsupported", err)
	}
}
