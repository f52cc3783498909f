package openlibrary

// SearchResponse is the Open Library search.json envelope.
type SearchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
}

// Doc represents one work from a search result.
type Doc struct {
	Key              string   `json:"key"` // "/works/OL...W"
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	Subject          []string `json:"subject"`
	CoverID          int      `json:"cover_i"`
	FirstPublishYear int      `json:"first_publish_year"`
}

// WorkResponse is the /works/{olid}.json payload.
type WorkResponse struct {
	Key      string            `json:"key"`
	Title    string            `json:"title"`
	Subjects []string          `json:"subjects"`
	Covers   []int             `json:"covers"`
	Authors  []WorkAuthorEntry `json:"authors"`
}

// WorkAuthorEntry is the nested author reference inside a work.
type WorkAuthorEntry struct {
	Author AuthorRef `json:"author"`
}

// AuthorRef points at an author record.
type AuthorRef struct {
	Key string `json:"key"` // "/authors/OL...A"
}

// AuthorResponse is the /authors/{id}.json payload.
type AuthorResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}
