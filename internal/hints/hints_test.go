package hints_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/factflash/internal/hints"
)

func TestHint_OrderIndependent(t *testing.T) {
	for a := 0; a <= 12; a++ {
		for b := 0; b <= 12; b++ {
			assert.Equal(t, hints.Hint(a, b), hints.Hint(b, a), "hint(%d,%d) != hint(%d,%d)", a, b, b, a)
		}
	}
}

func TestHint_NeverEmpty(t *testing.T) {
	for a := -3; a <= 20; a++ {
		for b := -3; b <= 20; b++ {
			assert.NotEmpty(t, hints.Hint(a, b))
		}
	}
}

func TestHint_SevenEight(t *testing.T) {
	h := strings.ToLower(hints.Hint(7, 8))
	assert.True(t,
		strings.Contains(h, "five-six") || strings.Contains(h, "five six") || strings.Contains(h, "56"),
		"unexpected hint: %s", h)
}

func TestHint_RuleCascade(t *testing.T) {
	tests := []struct {
		name     string
		a, b     int
		contains string
	}{
		{"zero wins over everything", 0, 9, "times 0 is 0"},
		{"zero with one", 1, 0, "times 0 is 0"},
		{"identity", 1, 7, "1 × 7 = 7"},
		{"identity wins over ten", 10, 1, "Multiplying by 1"},
		{"ten appends zero", 10, 6, "6 becomes 60"},
		{"ten wins over nines", 9, 10, "9 becomes 90"},
		{"square", 6, 6, "6 × 6 = 36"},
		{"nine square", 9, 9, "9 × 9 = 81"},
		{"nines trick", 9, 7, "That makes 63"},
		{"nines trick low", 2, 9, "That makes 18"},
		{"nines eleven uses canned", 11, 9, "99"},
		{"nines twelve uses canned", 9, 12, "108"},
		{"canned pair", 4, 3, "12 = 3 × 4"},
		{"both even", 4, 6, "halve 6 to get 3 and double 4 to get 8"},
		{"both even large", 12, 2, "still 24"},
		{"five via tens", 5, 7, "7 × 10 = 70, and half of that is 35"},
		{"five square stays canned", 5, 5, "25 cents"},
		{"fallback", 3, 11, "friendlier pieces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, hints.Hint(tt.a, tt.b), tt.contains)
		})
	}
}

func TestHint_NinesDigitsMatchProduct(t *testing.T) {
	for other := 2; other <= 8; other++ {
		h := hints.Hint(9, other)
		want := 9 * other
		assert.Contains(t, h, "That makes "+strconv.Itoa(want), "9 × %d", other)
	}
}

func TestHint_EvenRuleKeepsProduct(t *testing.T) {
	for _, pair := range [][2]int{{2, 4}, {4, 8}, {6, 12}, {2, 12}} {
		h := hints.Hint(pair[0], pair[1])
		assert.Contains(t, h, "is still "+strconv.Itoa(pair[0]*pair[1]))
	}
}
