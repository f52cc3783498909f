package recommend

import (
	"fmt"
	"strings"

	"github.com/recshelf/recshelf/internal/media"
)

// typeNouns maps media types to the plural noun used in prompts.
var typeNouns = map[media.Type]string{
	media.TypeMovie: "movies",
	media.TypeTV:    "TV series",
	media.TypeGame:  "video games",
	media.TypeBook:  "books",
}

// describeItem formats one liked item as "Title (Genre, Genre)" for the
// prompt. Genres may be empty.
func describeItem(title string, genres []string) string {
	if len(genres) == 0 {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, strings.Join(genres, ", "))
}

// buildPrompt asks the model for recommendations based on the liked item
// descriptions. The response format is pinned to a bare JSON array so
// ParseTitles can read it.
func buildPrompt(t media.Type, descriptions []string, limit int) string {
	noun := typeNouns[t]

	var sb strings.Builder
	fmt.Fprintf(&sb, "Here are the %s I liked:\n", noun)
	for _, d := range descriptions {
		fmt.Fprintf(&sb, "- %s\n", d)
	}
	fmt.Fprintf(&sb, "Recommend %d other %s in a similar style. ", limit, noun)
	sb.WriteString("Respond with only a JSON array of title strings, most relevant first, with no other text.")

	return sb.String()
}
