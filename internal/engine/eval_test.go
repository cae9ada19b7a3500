package engine

import (
	"testing"

	"github.com/notnil/chess"
)

// positionFromFEN is a test helper that builds a position from a FEN string.
func positionFromFEN(t *testing.T, fen string) *chess.Position {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("bad FEN %q: %v", fen, err)
	}
	return chess.NewGame(opt).Position()
}

func TestEvaluateStartingPosition(t *testing.T) {
	pos := chess.NewGame().Position()
	if score := Evaluate(pos); score != 0 {
		t.Errorf("starting position should be balanced, got %d", score)
	}
}

func TestEvaluateMaterial(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want int
	}{
		{
			name: "bare kings",
			fen:  "k7/8/8/8/8/8/8/7K w - - 0 1",
			want: 0,
		},
		{
			name: "queen odds for white",
			fen:  "k7/8/8/8/8/8/8/KQ6 w - - 0 1",
			want: 9,
		},
		{
			name: "rook and pawn for black",
			fen:  "kr6/p7/8/8/8/8/8/7K w - - 0 1",
			want: -6,
		},
		{
			name: "minor pieces balance rook and pawn",
			fen:  "kr6/p7/8/8/8/8/8/KNB5 w - - 0 1",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := positionFromFEN(t, tt.fen)
			if got := Evaluate(pos); got != tt.want {
				t.Errorf("Evaluate(%s) = %d, want %d", tt.fen, got, tt.want)
			}
		})
	}
}

// TestEvaluateAntisymmetry checks that evaluating a position and its
// color-reversed mirror produces negated scores.
func TestEvaluateAntisymmetry(t *testing.T) {
	pairs := []struct {
		fen, mirror string
	}{
		{
			fen:    "k7/8/8/8/8/8/8/KQ6 w - - 0 1",
			mirror: "kq6/8/8/8/8/8/8/K7 b - - 0 1",
		},
		{
			fen:    "kr6/p7/8/8/8/8/8/KNB5 w - - 0 1",
			mirror: "knb5/8/8/8/8/8/P7/KR6 b - - 0 1",
		},
		{
			fen:    "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			mirror: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1",
		},
	}

	for _, p := range pairs {
		a := Evaluate(positionFromFEN(t, p.fen))
		b := Evaluate(positionFromFEN(t, p.mirror))
		if a != -b {
			t.Errorf("mirror scores not negated: %q=%d, %q=%d", p.fen, a, p.mirror, b)
		}
	}
}
