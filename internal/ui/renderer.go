package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/notnil/chess"

	"quickchess/internal/session"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	TargetColor    color.RGBA
	LastMoveColor  color.RGBA
	CheckColor     color.RGBA
	Background     color.RGBA
	TextColor      color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{238, 238, 210, 255}, // Cream
		DarkSquare:     color.RGBA{118, 150, 86, 255},  // Green
		SelectedSquare: color.RGBA{255, 255, 51, 150},  // Yellow highlight
		TargetColor:    color.RGBA{80, 100, 60, 190},   // Dark green dots
		LastMoveColor:  color.RGBA{180, 190, 100, 90},  // Soft yellow-green
		CheckColor:     color.RGBA{255, 100, 100, 180}, // Red
		Background:     color.RGBA{40, 44, 52, 255},    // Dark gray
		TextColor:      color.RGBA{220, 220, 220, 255}, // Light gray
	}
}

// Renderer draws the board, pieces and highlights.
type Renderer struct {
	sprites    *SpriteManager
	theme      *Theme
	boardSize  int
	squareSize int
	scale      float64 // HiDPI scale factor
}

// NewRenderer creates a renderer for a board of the given pixel size.
func NewRenderer(boardSize, squareSize int) *Renderer {
	return &Renderer{
		sprites:    NewSpriteManager(squareSize),
		theme:      DefaultTheme(),
		boardSize:  boardSize,
		squareSize: squareSize,
		scale:      1.0,
	}
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) {
	r.scale = scale
	r.sprites.SetScale(scale)
}

// s returns the scaled value for drawing.
func (r *Renderer) s(v int) float32 {
	return float32(float64(v) * r.scale)
}

// DrawBoard draws the checkered squares.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			x := r.s(file * r.squareSize)
			y := r.s((7 - rank) * r.squareSize) // White's back rank at the bottom

			c := r.theme.DarkSquare
			if (rank+file)%2 == 1 {
				c = r.theme.LightSquare
			}
			vector.DrawFilledRect(screen, x, y, r.s(r.squareSize), r.s(r.squareSize), c, false)
		}
	}
}

// DrawHighlights draws the last move tint, the selection highlight and the
// legal-target dots.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, selected chess.Square, targets []*chess.Move, lastMove *chess.Move) {
	if lastMove != nil {
		r.highlightSquare(screen, lastMove.S1(), r.theme.LastMoveColor)
		r.highlightSquare(screen, lastMove.S2(), r.theme.LastMoveColor)
	}

	if selected != session.NoSquare {
		r.highlightSquare(screen, selected, r.theme.SelectedSquare)
	}

	for _, mv := range targets {
		r.drawTargetDot(screen, mv.S2())
	}
}

// DrawCheck tints the checked king's square.
func (r *Renderer) DrawCheck(screen *ebiten.Image, kingSq chess.Square) {
	r.highlightSquare(screen, kingSq, r.theme.CheckColor)
}

func (r *Renderer) highlightSquare(screen *ebiten.Image, sq chess.Square, c color.RGBA) {
	if sq == session.NoSquare {
		return
	}
	x, y := r.SquareToScreen(sq)
	vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(r.squareSize), r.s(r.squareSize), c, false)
}

func (r *Renderer) drawTargetDot(screen *ebiten.Image, sq chess.Square) {
	x, y := r.SquareToScreen(sq)
	cx := r.s(x) + r.s(r.squareSize)/2
	cy := r.s(y) + r.s(r.squareSize)/2
	vector.DrawFilledCircle(screen, cx, cy, r.s(r.squareSize)*0.15, r.theme.TargetColor, false)
}

// DrawPieces draws every piece on the board.
func (r *Renderer) DrawPieces(screen *ebiten.Image, pos *chess.Position) {
	board := pos.Board()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		x, y := r.SquareToScreen(sq)
		r.sprites.DrawPieceAt(screen, piece, int(r.s(x)), int(r.s(y)))
	}
}

// SquareToScreen converts a square to logical screen coordinates.
func (r *Renderer) SquareToScreen(sq chess.Square) (int, int) {
	file := int(sq.File())
	rank := int(sq.Rank())
	return file * r.squareSize, (7 - rank) * r.squareSize
}

// ScreenToSquare converts logical screen coordinates to a square, or
// session.NoSquare when off the board.
func (r *Renderer) ScreenToSquare(x, y int) chess.Square {
	if x < 0 || x >= r.boardSize || y < 0 || y >= r.boardSize {
		return session.NoSquare
	}
	file := x / r.squareSize
	rank := 7 - (y / r.squareSize)
	return chess.Square(rank*8 + file)
}
