package oracle

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrParse indicates the completion text could not be read as a JSON
// array of title strings.
var ErrParse = errors.New("completion is not a JSON array of strings")

// ParseTitles extracts an ordered list of title strings from a raw
// completion. The model is asked for a JSON array but frequently wraps it
// in a markdown code fence or backticks; both wrappings are stripped
// before parsing. Order is the model's ranking and is preserved as-is.
func ParseTitles(raw string) ([]string, error) {
	text := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(text, "```json"):
		if len(text) < 10 || !strings.HasSuffix(text, "```") {
			return nil, fmt.Errorf("%w: unterminated code fence", ErrParse)
		}
		text = strings.TrimSpace(text[7 : len(text)-3])
	case strings.HasPrefix(text, "`"):
		if len(text) < 2 || !strings.HasSuffix(text, "`") {
			return nil, fmt.Errorf("%w: unterminated backtick", ErrParse)
		}
		text = strings.TrimSpace(text[1 : len(text)-1])
	}

	var values []json.RawMessage
	if err := json.Unmarshal([]byte(text), &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	titles := make([]string, 0, len(values))
	for _, v := range values {
		var title string
		if err := json.Unmarshal(v, &title); err != nil {
			return nil, fmt.Errorf("%w: element is not a string", ErrParse)
		}
		titles = append(titles, title)
	}

	return titles, nil
}
