// Package scramble generates the pseudo-random move sequences applied to
// both players' cubes at game start.
package scramble

import (
	"math/rand/v2"
	"strings"
)

// Faces are the six cube faces a scramble move can turn.
var Faces = []string{"U", "D", "L", "R", "F", "B"}

// Modifiers are the turn variants: quarter turn, inverse, double.
var Modifiers = []string{"", "'", "2"}

// DefaultLength matches the full game scramble used at game start.
const DefaultLength = 25

// Generate produces a space-separated sequence of n random moves. Each move
// pairs a face with a uniformly chosen modifier, and no two consecutive moves
// turn the same face. The same-face rule ignores modifiers: "R R'" is
// rejected, "R L" is allowed. For n < 1 it returns an empty string.
func Generate(n int) string {
	if n < 1 {
		return ""
	}

	moves := make([]string, 0, n)
	lastFace := -1

	for i := 0; i < n; i++ {
		face := rand.IntN(len(Faces))
		for face == lastFace {
			face = rand.IntN(len(Faces))
		}
		lastFace = face

		mod := rand.IntN(len(Modifiers))
		moves = append(moves, Faces[face]+Modifiers[mod])
	}

	return strings.Join(moves, " ")
}
