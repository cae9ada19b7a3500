package session

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/notnil/chess"

	"quickchess/internal/engine"
)

// DefaultReplyDelay is how long the computer waits before computing its
// reply, so the human's move is on screen first.
const DefaultReplyDelay = 250 * time.Millisecond

// Controller drives one game of human-vs-computer chess. The human plays
// White. All methods must be called from the interaction goroutine (the
// frame loop); the only background work is the reply computation, which is
// handed back through PollReply.
type Controller struct {
	game     *chess.Game
	selector *engine.Selector

	humanColor chess.Color
	selected   chess.Square
	status     GameStatus
	drawMethod chess.Method
	lastMove   *chess.Move
	sanLog     []string

	replyDelay time.Duration
	reply      chan *chess.Move
	thinking   bool

	changeHooks []func()
	moveHooks   []func(*chess.Move)
}

// Option configures a Controller.
type Option func(*Controller)

// WithGame starts the controller from an existing game, e.g. one built from
// a FEN position.
func WithGame(g *chess.Game) Option {
	return func(c *Controller) { c.game = g }
}

// WithSelector replaces the default move selector.
func WithSelector(s *engine.Selector) Option {
	return func(c *Controller) { c.selector = s }
}

// WithReplyDelay overrides the presentation delay before the computer
// computes its reply. Zero means reply as fast as possible.
func WithReplyDelay(d time.Duration) Option {
	return func(c *Controller) { c.replyDelay = d }
}

// New creates a controller for a fresh game.
func New(opts ...Option) *Controller {
	c := &Controller{
		game:       chess.NewGame(),
		selector:   engine.NewSelector(nil),
		humanColor: chess.White,
		selected:   NoSquare,
		replyDelay: DefaultReplyDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.updateStatus()
	return c
}

// OnChange registers a hook fired after every mutating operation. The
// presentation layer uses it to know a redraw is due.
func (c *Controller) OnChange(fn func()) {
	c.changeHooks = append(c.changeHooks, fn)
}

// OnMove registers a hook fired with every applied move, human or computer.
func (c *Controller) OnMove(fn func(*chess.Move)) {
	c.moveHooks = append(c.moveHooks, fn)
}

func (c *Controller) notify() {
	for _, fn := range c.changeHooks {
		fn()
	}
}

// SelectOrMove is the single entry point for human input: a click on the
// given square. Out-of-turn clicks and clicks after the game ended are
// silently ignored; illegal move attempts fall back to reselection or
// deselection and never surface as errors.
func (c *Controller) SelectOrMove(sq chess.Square) {
	if c.status.Terminal() || c.thinking {
		return
	}
	if c.game.Position().Turn() != c.humanColor {
		return
	}
	if sq < chess.A1 || sq > chess.H8 {
		return
	}

	if c.selected == NoSquare {
		if c.ownPieceAt(sq) {
			c.selected = sq
			c.notify()
		}
		return
	}

	if sq == c.selected {
		c.selected = NoSquare
		c.notify()
		return
	}

	if mv := c.findMove(c.selected, sq); mv != nil {
		c.apply(mv)
		if !c.status.Terminal() {
			c.beginReply()
		}
		return
	}

	// Not a legal move. Clicking another of our own pieces reselects;
	// anything else drops the selection.
	if c.ownPieceAt(sq) {
		c.selected = sq
	} else {
		c.selected = NoSquare
	}
	c.notify()
}

// ownPieceAt reports whether the square holds a piece of the side to move.
func (c *Controller) ownPieceAt(sq chess.Square) bool {
	piece := c.game.Position().Board().Piece(sq)
	return piece != chess.NoPiece && piece.Color() == c.game.Position().Turn()
}

// findMove looks the (from, to) pair up in the legal move set. Promotions
// always resolve to the queen; the human is never offered an underpromotion.
func (c *Controller) findMove(from, to chess.Square) *chess.Move {
	for _, mv := range c.game.Position().ValidMoves() {
		if mv.S1() != from || mv.S2() != to {
			continue
		}
		if mv.Promo() != chess.NoPieceType && mv.Promo() != chess.Queen {
			continue
		}
		return mv
	}
	return nil
}

// apply commits a legal move, clears the selection and refreshes the
// terminal status.
func (c *Controller) apply(mv *chess.Move) {
	san := chess.AlgebraicNotation{}.Encode(c.game.Position(), mv)
	if err := c.game.Move(mv); err != nil {
		// Unreachable: mv came from the legal move set.
		log.Printf("[MOVE] rejected %v: %v", mv, err)
		return
	}
	c.sanLog = append(c.sanLog, san)
	c.lastMove = mv
	c.selected = NoSquare
	c.updateStatus()
	for _, fn := range c.moveHooks {
		fn(mv)
	}
	c.notify()
}

// beginReply schedules the computer's move. Each round gets its own buffered
// channel so a reply from a game that was reset in the meantime has nowhere
// to land.
func (c *Controller) beginReply() {
	c.thinking = true
	ch := make(chan *chess.Move, 1)
	c.reply = ch

	pos := c.game.Position()
	delay := c.replyDelay
	sel := c.selector
	go func() {
		if delay > 0 {
			time.Sleep(delay)
		}
		ch <- sel.Choose(pos)
	}()
}

// PollReply applies the computer's move if it has arrived. Call once per
// frame. Returns true when a move was applied.
func (c *Controller) PollReply() bool {
	if !c.thinking {
		return false
	}
	select {
	case mv := <-c.reply:
		c.thinking = false
		if mv == nil {
			// The selector only comes up empty on a terminal position, and
			// terminal positions are filtered before scheduling.
			log.Printf("[AI] selector returned no move, status=%v", c.status)
			c.updateStatus()
			c.notify()
			return false
		}
		log.Printf("[AI] reply %v", mv)
		c.apply(mv)
		return true
	default:
		return false
	}
}

// updateStatus refreshes the game status from the rules engine. Draws the
// rules engine only makes claimable (threefold repetition, fifty-move rule)
// are claimed immediately. Once terminal, the status never changes.
func (c *Controller) updateStatus() {
	if c.status.Terminal() {
		return
	}

	outcome := c.game.Outcome()
	if outcome == chess.NoOutcome {
		for _, method := range c.game.EligibleDraws() {
			if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
				if err := c.game.Draw(method); err == nil {
					outcome = c.game.Outcome()
				}
				break
			}
		}
	}

	switch outcome {
	case chess.NoOutcome:
		return
	case chess.WhiteWon:
		c.status = StatusWhiteWins
	case chess.BlackWon:
		c.status = StatusBlackWins
	case chess.Draw:
		if c.game.Method() == chess.Stalemate {
			c.status = StatusStalemate
		} else {
			c.status = StatusDraw
		}
	}
	c.drawMethod = c.game.Method()
	log.Printf("[GAME] over: %s", c.StatusText())
}

// Reset starts a new game. Any in-flight reply is orphaned on its own
// channel and can never reach the new game.
func (c *Controller) Reset() {
	c.game = chess.NewGame()
	c.selected = NoSquare
	c.status = StatusInProgress
	c.drawMethod = chess.NoMethod
	c.lastMove = nil
	c.sanLog = nil
	c.thinking = false
	c.reply = nil
	c.notify()
}

// Phase returns the controller's current interaction state.
func (c *Controller) Phase() Phase {
	switch {
	case c.status.Terminal():
		return PhaseGameOver
	case c.thinking:
		return PhaseEngineTurn
	case c.selected != NoSquare:
		return PhaseSelectTarget
	default:
		return PhaseSelectPiece
	}
}

// Status returns the current game status without mutating anything.
func (c *Controller) Status() GameStatus {
	return c.status
}

// DrawMethod returns the reason a drawn game ended, or chess.NoMethod.
func (c *Controller) DrawMethod() chess.Method {
	return c.drawMethod
}

// StatusText returns a user-facing description of the game status.
func (c *Controller) StatusText() string {
	if c.status == StatusDraw {
		switch c.drawMethod {
		case chess.ThreefoldRepetition, chess.FivefoldRepetition:
			return "Draw by repetition"
		case chess.FiftyMoveRule, chess.SeventyFiveMoveRule:
			return "Draw by fifty-move rule"
		case chess.InsufficientMaterial:
			return "Draw by insufficient material"
		}
	}
	return c.status.String()
}

// Position returns the current position snapshot.
func (c *Controller) Position() *chess.Position {
	return c.game.Position()
}

// Selection returns the selected square, or NoSquare.
func (c *Controller) Selection() chess.Square {
	return c.selected
}

// MovesFromSelection returns the legal moves starting at the selected
// square, for the presentation layer's target hints.
func (c *Controller) MovesFromSelection() []*chess.Move {
	if c.selected == NoSquare {
		return nil
	}
	var moves []*chess.Move
	for _, mv := range c.game.Position().ValidMoves() {
		if mv.S1() == c.selected {
			moves = append(moves, mv)
		}
	}
	return moves
}

// LastMove returns the most recently applied move, or nil.
func (c *Controller) LastMove() *chess.Move {
	return c.lastMove
}

// SANHistory returns the applied moves in algebraic notation.
func (c *Controller) SANHistory() []string {
	return c.sanLog
}

// Thinking reports whether the computer's reply is pending.
func (c *Controller) Thinking() bool {
	return c.thinking
}

// HumanColor returns the color the human controls.
func (c *Controller) HumanColor() chess.Color {
	return c.humanColor
}

// InCheck reports whether the side to move is in check. Derived from the
// position itself, not from the last move's check tag, so a game started
// from a FEN position with the mover already in check reports correctly.
func (c *Controller) InCheck() bool {
	if c.status.Terminal() {
		return false
	}
	return positionInCheck(c.game.Position(), c.KingSquare(c.game.Position().Turn()))
}

// positionInCheck reports whether kingSq is attacked by the side not to
// move. The rules engine exposes check only as a tag on the move that
// produced it, so the attack test is asked directly: hand the opponent the
// turn with their king swapped for a pawn of theirs (no king means no
// own-check filtering of their moves, and the pawn keeps the square
// occupied), then look for a move landing on the king square. The swapped
// pawn cannot fake an attack: it would have to sit diagonally adjacent to
// the king, which only happens when the kings were adjacent to begin with.
func positionInCheck(pos *chess.Position, kingSq chess.Square) bool {
	if kingSq == NoSquare {
		return false
	}
	fields := strings.Fields(pos.String())
	if len(fields) < 1 {
		return false
	}
	attacker := pos.Turn().Other()
	if attacker == chess.White {
		fields[0] = strings.Replace(fields[0], "K", "P", 1)
	} else {
		fields[0] = strings.Replace(fields[0], "k", "p", 1)
	}

	fenOpt, err := chess.FEN(fmt.Sprintf("%s %s - - 0 1", fields[0], attacker))
	if err != nil {
		log.Printf("[GAME] check detection rejected position: %v", err)
		return false
	}
	for _, mv := range chess.NewGame(fenOpt).Position().ValidMoves() {
		if mv.S2() == kingSq {
			return true
		}
	}
	return false
}

// KingSquare returns the square of the given side's king, or NoSquare if it
// is absent (only possible on handcrafted test positions).
func (c *Controller) KingSquare(color chess.Color) chess.Square {
	board := c.game.Position().Board()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece != chess.NoPiece && piece.Color() == color && piece.Type() == chess.King {
			return sq
		}
	}
	return NoSquare
}
