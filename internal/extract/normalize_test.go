package extract

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "crlf and tabs", in: "a\r\nb\t\tc", want: "a\nb c"},
		{name: "spaces", in: "Entrepreneurial    intention   ", want: "Entrepreneurial intention"},
		{name: "blank lines", in: "one\n\n\n\n\ntwo", want: "one\n\ntwo"},
		{name: "blank lines with spaces", in: "one\n  \n \n\ntwo", want: "one\n\ntwo"},
		{name: "hyphen wrap", in: "entrepre-\nneurship", want: "entrepreneurship"},
		{name: "real hyphen kept", in: "self-\nEfficacy", want: "self-\nEfficacy"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
