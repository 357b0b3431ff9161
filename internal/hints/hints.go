// Package hints produces offline mnemonic hints for multiplication facts.
package hints

import "fmt"

var squares = map[int]string{
	0:  "0 × 0 = 0: nothing times nothing is still nothing.",
	1:  "1 × 1 = 1: one group of one is just one.",
	2:  "2 × 2 = 4: two pairs of socks make 4 socks.",
	3:  "3 × 3 = 9: a tic-tac-toe board has 9 squares.",
	4:  "4 × 4 = 16: four fours make sweet sixteen.",
	5:  "5 × 5 = 25: five nickels make a quarter, 25 cents.",
	6:  "6 × 6 = 36: six times six is thirty-six, say it quick!",
	7:  "7 × 7 = 49: seven sevens, forty-nine, feeling fine.",
	8:  "8 × 8 = 64: I ate and I ate and got sick on the floor, 8 × 8 is 64.",
	9:  "9 × 9 = 81: the digits of a nines answer add to 9, and 8 + 1 = 9.",
	10: "10 × 10 = 100: ten tens make one hundred.",
	11: "11 × 11 = 121: it reads the same forwards and backwards.",
	12: "12 × 12 = 144: a dozen dozens is called a gross.",
}

// pairs is keyed by the sorted operands, "lo x hi".
var pairs = map[string]string{
	"3x4":   "1, 2, 3, 4: 12 = 3 × 4. Say the digits in order!",
	"3x7":   "3 × 7 = 21: three weeks have 21 days.",
	"3x8":   "3 × 8 = 24: three spiders have 8 + 8 + 8 = 24 legs.",
	"4x7":   "4 × 7 = 28: four weeks make 28 days.",
	"6x7":   "6 × 7 = 42: six and seven skate to forty-two.",
	"6x8":   "6 × 8 = 48: six and eight went on a date and got home at 48.",
	"7x8":   "5, 6, 7, 8: 56 = 7 × 8. Count it out: five-six, seven-eight!",
	"7x12":  "7 × 12 = 84: seven dozen is 70 + 14 = 84.",
	"8x12":  "8 × 12 = 96: eight tens are 80, eight twos are 16, and 80 + 16 = 96.",
	"9x11":  "9 × 11 = 99: nine tens are 90, plus one more 9 makes 99.",
	"9x12":  "9 × 12 = 108: nine tens are 90, nine twos are 18, and 90 + 18 = 108.",
	"11x12": "11 × 12 = 132: twelve tens are 120, plus one more 12 makes 132.",
}

const fallback = "Split one number into friendlier pieces, like 7 = 5 + 2. " +
	"Multiply each piece, then add the answers together."

// Hint returns a deterministic mnemonic for a × b. Hint(a, b) == Hint(b, a).
func Hint(a, b int) string {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}

	switch {
	case lo == 0 || hi == 0:
		return fmt.Sprintf("Anything times 0 is 0, so %d × %d = 0.", lo, hi)
	case lo == 1 || hi == 1:
		other := otherOperand(lo, hi, 1)
		return fmt.Sprintf("Multiplying by 1 keeps a number the same: 1 × %d = %d.", other, other)
	case lo == 10 || hi == 10:
		other := otherOperand(lo, hi, 10)
		return fmt.Sprintf("To multiply by 10, put a zero on the end: %d becomes %d.", other, other*10)
	}

	if lo == hi {
		if h, ok := squares[lo]; ok {
			return h
		}
		return pairHint(lo, hi)
	}

	if lo == 9 || hi == 9 {
		other := otherOperand(lo, hi, 9)
		// The digit trick only holds for 2..10.
		if other >= 2 && other <= 10 {
			tens := other - 1
			ones := 9 - tens
			return fmt.Sprintf("Nines trick for 9 × %d: the tens digit is %d - 1 = %d, "+
				"and the digits add up to 9, so the ones digit is %d. That makes %d%d.",
				other, other, tens, ones, tens, ones)
		}
	}

	return pairHint(lo, hi)
}

func pairHint(lo, hi int) string {
	if h, ok := pairs[fmt.Sprintf("%dx%d", lo, hi)]; ok {
		return h
	}

	if lo%2 == 0 && hi%2 == 0 {
		half, double := hi/2, lo*2
		return fmt.Sprintf("Both numbers are even: halve %d to get %d and double %d to get %d. "+
			"%d × %d is still %d.", hi, half, lo, double, double, half, lo*hi)
	}

	if lo%5 == 0 || hi%5 == 0 {
		m, other := lo, hi
		if hi%5 == 0 && lo%5 != 0 {
			m, other = hi, lo
		}
		return fmt.Sprintf("Times %d is half of times %d: %d × %d = %d, and half of that is %d.",
			m, m*2, other, m*2, other*m*2, other*m)
	}

	return fallback
}

// otherOperand returns the operand that is not k, or k when both are k.
func otherOperand(lo, hi, k int) int {
	if lo == k {
		return hi
	}
	return lo
}
