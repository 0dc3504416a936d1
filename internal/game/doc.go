// Package game solves two-person zero-sum matrix games by reduction to a
// linear program.
//
// The payoff matrix is shifted so every entry is strictly positive, then
// solved as
//
//	maximize   1·x
//	subject to P·x <= 1, x >= 0
//
// With s = Σx the game value is 1/s minus the shift. The column player's
// minimax strategy is x/s and the row player's maximin strategy is y/s,
// where y holds the dual prices.
//
// # Example
//
//	eq, err := game.Solve([][]float64{
//		{0, -1, 1},
//		{1, 0, -1},
//		{-1, 1, 0},
//	})
//	// eq.Value == 0, eq.Row == eq.Column == [1/3 1/3 1/3]
package game
