// Package session owns the interactive game state: the human's selection,
// turn gating, terminal-status tracking and the scheduling of the computer's
// reply. All board mutation goes through the Controller; the presentation
// layer only queries it and forwards square clicks.
package session

import "github.com/notnil/chess"

// NoSquare marks the absence of a selection.
const NoSquare chess.Square = -1

// GameStatus is the lifecycle of a game. It starts at StatusInProgress and
// moves to exactly one terminal value, never back.
type GameStatus int

const (
	StatusInProgress GameStatus = iota
	StatusWhiteWins
	StatusBlackWins
	StatusStalemate
	StatusDraw
)

// Terminal reports whether the status ends the game.
func (s GameStatus) Terminal() bool {
	return s != StatusInProgress
}

func (s GameStatus) String() string {
	switch s {
	case StatusInProgress:
		return "in progress"
	case StatusWhiteWins:
		return "White wins by checkmate"
	case StatusBlackWins:
		return "Black wins by checkmate"
	case StatusStalemate:
		return "Draw by stalemate"
	case StatusDraw:
		return "Draw"
	default:
		return "unknown"
	}
}

// Phase is the controller's interaction state, mainly useful for the
// presentation layer and for tests that walk the state machine.
type Phase int

const (
	// PhaseSelectPiece: waiting for the human to pick one of their pieces.
	PhaseSelectPiece Phase = iota
	// PhaseSelectTarget: a piece is selected, waiting for a destination.
	PhaseSelectTarget
	// PhaseEngineTurn: the computer's reply is pending.
	PhaseEngineTurn
	// PhaseGameOver: terminal; all input is ignored.
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSelectPiece:
		return "select piece"
	case PhaseSelectTarget:
		return "select target"
	case PhaseEngineTurn:
		return "engine turn"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}
