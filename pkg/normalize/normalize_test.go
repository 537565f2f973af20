package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ácido Sulfúrico", "acido sulfurico"},
		{"ETANOL 96°", "etanol 96°"},
		{"nitrógeno", "nitrogeno"},
		{"Permanganato", "permanganato"},
		{"ÑANDÚ", "nandu"}, // la virgulilla de la ñ también es marca combinable
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Fold(tc.in), "Fold(%q)", tc.in)
	}
}
