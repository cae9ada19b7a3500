// Package ui implements the chess game UI using Ebitengine.
package ui

import (
	"bytes"
	"embed"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/notnil/chess"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/pieces/*.svg
var pieceAssets embed.FS

// SpriteManager rasterizes and caches piece sprites.
type SpriteManager struct {
	pieces      map[chess.Piece]*ebiten.Image
	size        int     // Display size in logical pixels
	renderScale float64 // Rasterize above display size for quality
	scale       float64 // HiDPI scale factor
}

// pieceFiles maps pieces to their embedded asset paths.
var pieceFiles = map[chess.Piece]string{
	chess.WhitePawn:   "assets/pieces/wP.svg",
	chess.WhiteKnight: "assets/pieces/wN.svg",
	chess.WhiteBishop: "assets/pieces/wB.svg",
	chess.WhiteRook:   "assets/pieces/wR.svg",
	chess.WhiteQueen:  "assets/pieces/wQ.svg",
	chess.WhiteKing:   "assets/pieces/wK.svg",
	chess.BlackPawn:   "assets/pieces/bP.svg",
	chess.BlackKnight: "assets/pieces/bN.svg",
	chess.BlackBishop: "assets/pieces/bB.svg",
	chess.BlackRook:   "assets/pieces/bR.svg",
	chess.BlackQueen:  "assets/pieces/bQ.svg",
	chess.BlackKing:   "assets/pieces/bK.svg",
}

// NewSpriteManager loads all piece sprites at the given display size.
func NewSpriteManager(size int) *SpriteManager {
	sm := &SpriteManager{
		pieces:      make(map[chess.Piece]*ebiten.Image),
		size:        size,
		renderScale: 3.0,
		scale:       1.0,
	}
	sm.loadPieces()
	return sm
}

// SetScale sets the HiDPI scale factor applied when drawing.
func (sm *SpriteManager) SetScale(scale float64) {
	if scale < 1.0 {
		scale = 1.0
	}
	sm.scale = scale
}

func (sm *SpriteManager) loadPieces() {
	renderSize := int(float64(sm.size) * sm.renderScale)

	for piece, path := range pieceFiles {
		data, err := pieceAssets.ReadFile(path)
		if err != nil {
			log.Printf("Failed to read piece asset %s: %v", path, err)
			continue
		}

		icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
		if err != nil {
			log.Printf("Failed to parse SVG %s: %v", path, err)
			continue
		}
		icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

		rgba := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
		scanner := rasterx.NewScannerGV(renderSize, renderSize, rgba, rgba.Bounds())
		raster := rasterx.NewDasher(renderSize, renderSize, scanner)
		icon.Draw(raster, 1.0)

		sm.pieces[piece] = ebiten.NewImageFromImage(rgba)
	}
}

// GetPiece returns the sprite for a piece, or nil.
func (sm *SpriteManager) GetPiece(p chess.Piece) *ebiten.Image {
	return sm.pieces[p]
}

// DrawPieceAt draws a piece at the given pixel coordinates.
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p chess.Piece, x, y int) {
	if p == chess.NoPiece {
		return
	}
	sprite := sm.GetPiece(p)
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	s := sm.scale / sm.renderScale
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(float64(x), float64(y))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}
