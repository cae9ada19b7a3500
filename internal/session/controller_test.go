package session

import (
	"testing"
	"time"

	"github.com/notnil/chess"

	"quickchess/internal/engine"
)

// newTestController builds a controller with a deterministic selector and no
// reply delay, optionally starting from a FEN position.
func newTestController(t *testing.T, fen string) *Controller {
	t.Helper()
	opts := []Option{
		WithSelector(engine.NewSelector(engine.FirstTieBreak{})),
		WithReplyDelay(0),
	}
	if fen != "" {
		fenOpt, err := chess.FEN(fen)
		if err != nil {
			t.Fatalf("bad FEN %q: %v", fen, err)
		}
		opts = append(opts, WithGame(chess.NewGame(fenOpt)))
	}
	return New(opts...)
}

// waitForReply spins until the pending computer move has been applied.
func waitForReply(t *testing.T, c *Controller) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if c.PollReply() || !c.Thinking() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("computer reply never arrived")
}

func TestSelectIgnoresEmptyAndEnemySquares(t *testing.T) {
	c := newTestController(t, "")

	// Empty square.
	c.SelectOrMove(chess.E4)
	if c.Selection() != NoSquare {
		t.Errorf("selecting an empty square should be a no-op, got %v", c.Selection())
	}

	// Black piece while White is to move.
	c.SelectOrMove(chess.E7)
	if c.Selection() != NoSquare {
		t.Errorf("selecting an enemy piece should be a no-op, got %v", c.Selection())
	}
	if c.Phase() != PhaseSelectPiece {
		t.Errorf("phase = %v, want %v", c.Phase(), PhaseSelectPiece)
	}
}

func TestSelectOwnPiece(t *testing.T) {
	c := newTestController(t, "")

	c.SelectOrMove(chess.E2)
	if c.Selection() != chess.E2 {
		t.Fatalf("selection = %v, want e2", c.Selection())
	}
	if c.Phase() != PhaseSelectTarget {
		t.Errorf("phase = %v, want %v", c.Phase(), PhaseSelectTarget)
	}
	if len(c.MovesFromSelection()) != 2 {
		t.Errorf("e2 pawn should have two moves, got %d", len(c.MovesFromSelection()))
	}
}

func TestDeselectOnSecondClick(t *testing.T) {
	c := newTestController(t, "")
	before := c.Position().String()

	c.SelectOrMove(chess.E2)
	c.SelectOrMove(chess.E2)

	if c.Selection() != NoSquare {
		t.Errorf("second click on the selection should deselect, got %v", c.Selection())
	}
	if c.Phase() != PhaseSelectPiece {
		t.Errorf("phase = %v, want %v", c.Phase(), PhaseSelectPiece)
	}
	if c.Position().String() != before {
		t.Error("deselection must not mutate the board")
	}
}

func TestReselectOtherOwnPiece(t *testing.T) {
	c := newTestController(t, "")

	// Knight g1 cannot move to d2, but d2 holds our pawn: reselect, not
	// deselect.
	c.SelectOrMove(chess.G1)
	c.SelectOrMove(chess.D2)

	if c.Selection() != chess.D2 {
		t.Errorf("selection = %v, want d2", c.Selection())
	}
	if c.Phase() != PhaseSelectTarget {
		t.Errorf("phase = %v, want %v", c.Phase(), PhaseSelectTarget)
	}
}

func TestIllegalTargetClearsSelection(t *testing.T) {
	c := newTestController(t, "")
	before := c.Position().String()

	c.SelectOrMove(chess.E2)
	c.SelectOrMove(chess.E7) // pawn cannot reach an enemy pawn five ranks up

	if c.Selection() != NoSquare {
		t.Errorf("illegal target should clear the selection, got %v", c.Selection())
	}
	if c.Position().String() != before {
		t.Error("illegal move attempt must not mutate the board")
	}
}

func TestLegalMoveMatchesRulesEngine(t *testing.T) {
	c := newTestController(t, "")

	// What the rules engine says e2e4 produces.
	reference := chess.NewGame()
	if err := reference.MoveStr("e4"); err != nil {
		t.Fatalf("e4: %v", err)
	}

	c.SelectOrMove(chess.E2)
	c.SelectOrMove(chess.E4)

	if c.Selection() != NoSquare {
		t.Error("applying a move must clear the selection")
	}
	if got, want := c.Position().String(), reference.Position().String(); got != want {
		t.Errorf("position after controller move = %q, want %q", got, want)
	}
	if c.Status() != StatusInProgress {
		t.Errorf("status = %v, want in progress", c.Status())
	}
	if c.Phase() != PhaseEngineTurn {
		t.Errorf("phase = %v, want %v", c.Phase(), PhaseEngineTurn)
	}
}

func TestOpeningExchange(t *testing.T) {
	c := newTestController(t, "")

	c.SelectOrMove(chess.E2)
	c.SelectOrMove(chess.E4)
	waitForReply(t, c)

	if c.Position().Turn() != chess.White {
		t.Errorf("after the reply it should be White's turn, got %v", c.Position().Turn())
	}
	if got := len(c.SANHistory()); got != 2 {
		t.Fatalf("expected 2 moves in the log, got %d (%v)", got, c.SANHistory())
	}
	if score := engine.Evaluate(c.Position()); score != 0 {
		t.Errorf("material should be level after the first exchange, got %d", score)
	}
	if c.Phase() != PhaseSelectPiece {
		t.Errorf("phase = %v, want %v", c.Phase(), PhaseSelectPiece)
	}
}

func TestOutOfTurnInputIgnored(t *testing.T) {
	c := newTestController(t, "")

	c.SelectOrMove(chess.E2)
	c.SelectOrMove(chess.E4)

	// Reply pending: clicks must be dropped, not queued.
	c.SelectOrMove(chess.D2)
	if c.Selection() != NoSquare {
		t.Errorf("input during the engine's turn should be ignored, got %v", c.Selection())
	}
	waitForReply(t, c)
}

func TestCheckmateByHuman(t *testing.T) {
	// Scholar's mate, one move before Qxf7#.
	c := newTestController(t, "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4")

	c.SelectOrMove(chess.H5)
	c.SelectOrMove(chess.F7)

	if c.Status() != StatusWhiteWins {
		t.Fatalf("status = %v, want White wins", c.Status())
	}
	if c.Phase() != PhaseGameOver {
		t.Errorf("phase = %v, want %v", c.Phase(), PhaseGameOver)
	}
	if c.Thinking() {
		t.Error("no reply may be scheduled after a terminal move")
	}

	// Terminal is absorbing: further input is a no-op.
	after := c.Position().String()
	c.SelectOrMove(chess.A2)
	c.SelectOrMove(chess.A4)
	if c.Selection() != NoSquare || c.Position().String() != after {
		t.Error("input after game over must have no effect")
	}
}

func TestStalemateByHuman(t *testing.T) {
	// Qb5-b6 leaves the black king on a8 with no legal move and no check.
	c := newTestController(t, "k7/8/8/1Q6/8/8/8/7K w - - 0 1")

	c.SelectOrMove(chess.B5)
	c.SelectOrMove(chess.B6)

	if c.Status() != StatusStalemate {
		t.Fatalf("status = %v, want stalemate", c.Status())
	}
	if c.Thinking() {
		t.Error("no reply may be scheduled after stalemate")
	}
}

func TestAutoQueenPromotion(t *testing.T) {
	c := newTestController(t, "8/P7/8/8/8/8/k7/7K w - - 0 1")

	c.SelectOrMove(chess.A7)
	c.SelectOrMove(chess.A8)

	piece := c.Position().Board().Piece(chess.A8)
	if piece != chess.WhiteQueen {
		t.Fatalf("piece on a8 = %v, want white queen", piece)
	}
	if c.Position().Turn() != chess.Black {
		t.Errorf("turn should pass to Black after promotion, got %v", c.Position().Turn())
	}
}

func TestReplyCapturesHangingPiece(t *testing.T) {
	// After any quiet white king move, Black's queen takes the hanging rook.
	c := newTestController(t, "k7/8/8/3q4/8/8/8/K2R4 w - - 0 1")

	c.SelectOrMove(chess.A1)
	c.SelectOrMove(chess.B2)
	waitForReply(t, c)

	if got := c.LastMove().String(); got != "d5d1" {
		t.Errorf("reply = %s, want the rook capture d5d1", got)
	}
	if score := engine.Evaluate(c.Position()); score != -9 {
		t.Errorf("material after the capture = %d, want -9", score)
	}
}

func TestReset(t *testing.T) {
	c := newTestController(t, "")

	c.SelectOrMove(chess.E2)
	c.SelectOrMove(chess.E4)
	c.Reset()

	if c.Status() != StatusInProgress || c.Selection() != NoSquare {
		t.Error("reset should return to a fresh in-progress game")
	}
	if c.Thinking() {
		t.Error("reset must cancel the pending reply")
	}
	if len(c.SANHistory()) != 0 {
		t.Errorf("move log should be empty after reset, got %v", c.SANHistory())
	}
	if got, want := c.Position().String(), chess.NewGame().Position().String(); got != want {
		t.Errorf("position after reset = %q, want the starting position", got)
	}

	// The orphaned reply never lands on the new game.
	time.Sleep(20 * time.Millisecond)
	if c.PollReply() {
		t.Error("a stale reply was applied after reset")
	}
	if len(c.SANHistory()) != 0 {
		t.Error("stale reply mutated the new game")
	}
}

func TestOnChangeFires(t *testing.T) {
	c := newTestController(t, "")
	fired := 0
	c.OnChange(func() { fired++ })

	c.SelectOrMove(chess.E2) // select
	c.SelectOrMove(chess.E2) // deselect
	c.SelectOrMove(chess.E2) // select again
	c.SelectOrMove(chess.E4) // move

	if fired < 4 {
		t.Errorf("change hook fired %d times, want at least 4", fired)
	}
	waitForReply(t, c)
}

func TestOnMoveReportsBothSides(t *testing.T) {
	c := newTestController(t, "")
	var moves []string
	c.OnMove(func(mv *chess.Move) { moves = append(moves, mv.String()) })

	c.SelectOrMove(chess.E2)
	c.SelectOrMove(chess.E4)
	waitForReply(t, c)

	if len(moves) != 2 {
		t.Fatalf("move hook fired %d times, want 2 (%v)", len(moves), moves)
	}
	if moves[0] != "e2e4" {
		t.Errorf("first reported move = %s, want e2e4", moves[0])
	}
}

func TestFiftyMoveDrawClaimedAutomatically(t *testing.T) {
	// One half-move short of the fifty-move threshold; a quiet rook move
	// completes it and the controller claims the draw without being asked.
	c := newTestController(t, "k7/8/8/8/8/8/1R6/K7 w - - 99 80")

	c.SelectOrMove(chess.B2)
	c.SelectOrMove(chess.B3)

	if c.Status() != StatusDraw {
		t.Fatalf("status = %v, want draw", c.Status())
	}
	if m := c.DrawMethod(); m != chess.FiftyMoveRule {
		t.Errorf("draw method = %v, want fifty-move rule", m)
	}
}

// TestMoveAfterResetDuringPendingReply resets while a reply is being
// computed and immediately plays on. The orphaned goroutine and the next
// round's goroutine then share one selector, so this is also the race
// scenario the random tie-break must survive under the race detector.
func TestMoveAfterResetDuringPendingReply(t *testing.T) {
	c := New(
		WithSelector(engine.NewSelector(engine.NewRandomTieBreak(5))),
		WithReplyDelay(20*time.Millisecond),
	)

	c.SelectOrMove(chess.E2)
	c.SelectOrMove(chess.E4)
	c.Reset()

	c.SelectOrMove(chess.D2)
	c.SelectOrMove(chess.D4)
	waitForReply(t, c)

	if got := len(c.SANHistory()); got != 2 {
		t.Fatalf("expected 2 moves after the restarted game's exchange, got %d (%v)", got, c.SANHistory())
	}
	if c.SANHistory()[0] != "d4" {
		t.Errorf("first move of the restarted game = %s, want d4", c.SANHistory()[0])
	}
	if c.Position().Turn() != chess.White {
		t.Errorf("after the reply it should be White's turn, got %v", c.Position().Turn())
	}
}

// TestInCheckFromPosition starts games from positions where check state
// cannot be read off a previous move.
func TestInCheckFromPosition(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want bool
	}{
		{"rook gives check", "k7/8/8/8/4r3/8/8/4K3 w - - 0 1", true},
		{"own pawn blocks the rook", "k7/8/8/8/4r3/8/4P3/4K3 w - - 0 1", false},
		// The knight on d4 is pinned against its own king by the d1 rook;
		// a pinned piece still gives check.
		{"pinned knight gives check", "3k4/8/8/8/3n4/8/4K3/3R4 w - - 0 1", true},
		{"black to move in check", "4k3/8/8/8/8/8/8/4RK2 b - - 0 1", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestController(t, tc.fen)
			if got := c.InCheck(); got != tc.want {
				t.Errorf("InCheck() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestKingSquareAndCheck(t *testing.T) {
	c := newTestController(t, "")
	if sq := c.KingSquare(chess.White); sq != chess.E1 {
		t.Errorf("white king on %v, want e1", sq)
	}
	if c.InCheck() {
		t.Error("fresh game should not be in check")
	}
}
