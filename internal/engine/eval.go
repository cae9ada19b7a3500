// Package engine implements the computer opponent: a material-only
// evaluation and a one-ply minimizing move selector with a pluggable
// tie-break.
package engine

import "github.com/notnil/chess"

// pieceValues holds the material value of each piece type. Keyed entries so
// the table stays correct regardless of the library's enumeration order.
// Kings carry no material value; they are never off the board.
var pieceValues = [7]int{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
	chess.King:   0,
}

// Evaluate returns the material balance of the position from White's point
// of view: positive means White is up material, negative means Black is.
// It looks at piece counts only - no mobility, king safety or positional
// terms - and never mutates the position.
func Evaluate(pos *chess.Position) int {
	board := pos.Board()
	score := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		value := pieceValues[piece.Type()]
		if piece.Color() == chess.White {
			score += value
		} else {
			score -= value
		}
	}
	return score
}
