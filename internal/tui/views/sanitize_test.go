package views

import "testing"

func TestCellText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"  two\nlines\r\n", "two lines"},
		{"tab\tand  spaces", "tab and spaces"},
		{"bell\a", "bell"},
		{"thumbs \U0001F44D\U0001F3FB", "thumbs \U0001F44D"},
		{"heart \u2764\ufe0f", "heart \u2764"},
		{"\u0915\u094d\u200d\u0937", "\u0915\u094d\u200d\u0937"},
	}
	for _, tt := range tests {
		if got := cellText(tt.in); got != tt.want {
			t.Errorf("cellText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
