package mermaid

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "square label with quotes",
			input: `A[say "hi"]`,
			want:  `A["say 'hi'"]`,
		},
		{
			name:  "brace label with quotes",
			input: `B{check "x" value}`,
			want:  `B{"check 'x' value"}`,
		},
		{
			name:  "plain labels still wrapped",
			input: "graph TD\n  Start[Start process] --> Check{Is input valid}",
			want:  "graph TD\n  Start[\"Start process\"] --> Check{\"Is input valid\"}",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "no labels untouched",
			input: "graph TD\n  A --> B",
			want:  "graph TD\n  A --> B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
