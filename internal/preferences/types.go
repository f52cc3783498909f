package preferences

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/recshelf/recshelf/internal/media"
)

// Record holds one user's like/dislike signals keyed by media type.
// The same id may appear in both liked and disliked for one type; the
// store preserves whatever the user did and never enforces exclusivity.
type Record struct {
	Liked    map[media.Type][]string `json:"liked"`
	Disliked map[media.Type][]string `json:"disliked"`
}

// NewRecord returns an empty record with initialized maps.
func NewRecord() *Record {
	return &Record{
		Liked:    make(map[media.Type][]string),
		Disliked: make(map[media.Type][]string),
	}
}

// LikedFor returns the liked ids for a media type (possibly empty).
func (r *Record) LikedFor(t media.Type) []string {
	return r.Liked[t]
}

// storedRecord is the persisted JSON shape. Both signal fields are kept
// raw so legacy flat-list records can be detected and upgraded on read.
type storedRecord struct {
	Liked    json.RawMessage `json:"liked"`
	Disliked json.RawMessage `json:"disliked"`
}

// decodeRecord parses a stored JSON record, upgrading the legacy shape
// (a flat id array, meaning movie likes from before per-type maps) into
// the per-type map shape.
func decodeRecord(data []byte) (*Record, error) {
	var stored storedRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode preference record: %w", err)
	}

	liked, err := decodeSignal(stored.Liked)
	if err != nil {
		return nil, fmt.Errorf("failed to decode liked ids: %w", err)
	}
	disliked, err := decodeSignal(stored.Disliked)
	if err != nil {
		return nil, fmt.Errorf("failed to decode disliked ids: %w", err)
	}

	return &Record{Liked: liked, Disliked: disliked}, nil
}

// decodeSignal decodes one signal field, tolerating the legacy flat list.
func decodeSignal(raw json.RawMessage) (map[media.Type][]string, error) {
	out := make(map[media.Type][]string)

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return out, nil
	}

	if trimmed[0] == '[' {
		// Legacy flat list: interpreted as movie ids.
		var ids []string
		if err := json.Unmarshal(trimmed, &ids); err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			out[media.TypeMovie] = ids
		}
		return out, nil
	}

	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// encodeRecord serializes a record in the current per-type map shape.
// Legacy records are always persisted upgraded.
func encodeRecord(r *Record) ([]byte, error) {
	return json.Marshal(r)
}

// appendIfNew appends id to ids unless already present.
func appendIfNew(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// removeID removes id from ids, reporting whether it was present.
func removeID(ids []string, id string) ([]string, bool) {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...), true
		}
	}
	return ids, false
}
