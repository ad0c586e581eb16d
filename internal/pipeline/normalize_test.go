package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already clean", "what are your hours", "what are your hours"},
		{"leading and trailing space", "  hello  ", "hello"},
		{"multiple spaces", "how   much  is    it", "how much is it"},
		{"tabs and newlines", "price\tof\nthe bottle", "price of the bottle"},
		{"empty", "", ""},
		{"whitespace only", "  \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuery(tt.input))
		})
	}
}
