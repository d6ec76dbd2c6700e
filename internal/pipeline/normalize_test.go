package pipeline

import "testing"

func TestNormalizeMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"crlf", "one\r\n\r\ntwo", "one\n\ntwo"},
		{"lone cr", "one\rtwo", "one\ntwo"},
		{"blank runs", "one\n\n\n\n\ntwo", "one\n\ntwo"},
		{"whitespace-only lines collapse", "one\n  \n\t\n\ntwo", "one\n\ntwo"},
		{"trailing spaces", "one   \ntwo\t\n", "one\ntwo"},
		{"trims ends", "\n\n  ## Title\n\n", "## Title"},
		{"keeps inner indentation", "- a\n  continued", "- a\n  continued"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeMarkdown(tt.input); got != tt.want {
				t.Errorf("NormalizeMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
