package logutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short body kept", "OK", 10, "OK"},
		{"exact length kept", "error", 5, "error"},
		{"long body cut", "database already exists", 8, "database..."},
		{"multi-line html folded", "<html>\n  <body>502</body>\n</html>", 100, "<html> <body>502</body> </html>"},
		{"runes not split", "ошибка сервера", 6, "ошибка..."},
		{"zero limit", "anything", 0, "..."},
		{"empty input", "", 0, ""},
		{"whitespace only", " \n\t ", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateForLog(tt.in, tt.max))
		})
	}
}
