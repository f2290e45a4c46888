package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		want   string
		ok     bool
	}{
		{"single cookie", "csrftoken=abc123", "abc123", true},
		{"among others", "sessionid=xyz; csrftoken=abc123; theme=dark", "abc123", true},
		{"leading spaces", "  csrftoken=abc123  ", "abc123", true},
		{"percent encoded", "csrftoken=a%2Fb%3Dc", "a/b=c", true},
		{"absent", "sessionid=xyz; theme=dark", "", false},
		{"empty input", "", "", false},
		{"no value separator", "csrftoken", "", false},
		{"bad percent escape", "csrftoken=%zz", "", false},
		{"name is prefix only", "csrftoken2=abc", "", false},
		{"empty value", "csrftoken=", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractToken(tt.cookie)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
