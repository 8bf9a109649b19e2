package app

import (
	"fmt"
	"math/rand/v2"
	"strconv"
)

// GenerateCaptcha produces a human-solvable arithmetic question and its
// expected answer. Operands are single digits 1-9; subtraction answers use
// the absolute difference so the result is never negative.
func GenerateCaptcha() (question, answer string) {
	a := rand.IntN(9) + 1
	b := rand.IntN(9) + 1

	op := "+"
	result := a + b
	if rand.IntN(2) == 0 {
		op = "-"
		result = a - b
		if result < 0 {
			result = -result
		}
	}

	return fmt.Sprintf("%d %s %d = ?", a, op, b), strconv.Itoa(result)
}
