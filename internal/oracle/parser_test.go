package oracle

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseTitles(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "bare array",
			input: `["Dune", "Arrival", "Blade Runner 2049"]`,
			want:  []string{"Dune", "Arrival", "Blade Runner 2049"},
		},
		{
			name:  "json code fence",
			input: "```json\n[\"Dune\", \"Arrival\"]\n```",
			want:  []string{"Dune", "Arrival"},
		},
		{
			name:  "single backticks",
			input: "`[\"Dune\"]`",
			want:  []string{"Dune"},
		},
		{
			name:  "surrounding whitespace",
			input: "  \n[\"Hades\", \"Celeste\"]\n  ",
			want:  []string{"Hades", "Celeste"},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  []string{},
		},
		{
			name:  "order preserved",
			input: `["c", "a", "b"]`,
			want:  []string{"c", "a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTitles(tt.input)
			if err != nil {
				t.Fatalf("ParseTitles() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTitles() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTitles_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"prose response", "Here are some movies you might like: Dune, Arrival"},
		{"json object", `{"titles": ["Dune"]}`},
		{"array of objects", `[{"title": "Dune"}]`},
		{"mixed element types", `["Dune", 42]`},
		{"unterminated fence", "```json\n[\"Dune\"]"},
		{"unterminated backtick", "`[\"Dune\"]"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTitles(tt.input)
			if !errors.Is(err, ErrParse) {
				t.Errorf("ParseTitles() error = %v, want ErrParse", err)
			}
		})
	}
}
