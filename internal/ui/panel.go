package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"quickchess/internal/session"
)

// Panel layout
const (
	PanelPadding   = 20
	ButtonHeight   = 40
	moveRowHeight  = 22
	movesPerScroll = 3
)

// Panel colors
var (
	panelBg        = color.RGBA{38, 40, 45, 255}
	buttonBg       = color.RGBA{50, 54, 60, 255}
	buttonHoverBg  = color.RGBA{65, 70, 78, 255}
	buttonBorder   = color.RGBA{70, 75, 82, 255}
	buttonActiveBg = color.RGBA{76, 132, 96, 255}
	textPrimary    = color.RGBA{240, 240, 245, 255}
	textSecondary  = color.RGBA{160, 165, 175, 255}
	moveRowAlt     = color.RGBA{44, 48, 54, 255}
	statusThinking = color.RGBA{100, 180, 255, 255}
	statusGameOver = color.RGBA{255, 200, 80, 255}
)

// Button is a clickable rectangle with a label.
type Button struct {
	X, Y, W, H int
	Label      string
	OnClick    func()
	hovered    bool
	active     bool
}

// Panel is the side panel: status, controls and the move list.
type Panel struct {
	game *Game

	newGameBtn *Button
	soundBtn   *Button
	targetsBtn *Button

	scrollY int
}

// NewPanel creates the side panel for the given game.
func NewPanel(g *Game) *Panel {
	p := &Panel{game: g}

	contentX := BoardSize + PanelPadding
	contentW := PanelWidth - PanelPadding*2

	p.newGameBtn = &Button{
		X: contentX, Y: 64,
		W: contentW, H: ButtonHeight,
		Label:   "New Game",
		OnClick: g.NewGameAction,
	}

	half := (contentW - 8) / 2
	p.soundBtn = &Button{
		X: contentX, Y: 64 + ButtonHeight + 10,
		W: half, H: 30,
		Label:   "Sound",
		OnClick: g.ToggleSoundAction,
	}
	p.targetsBtn = &Button{
		X: contentX + half + 8, Y: 64 + ButtonHeight + 10,
		W: half, H: 30,
		Label:   "Hints",
		OnClick: g.ToggleTargetsAction,
	}

	return p
}

// HandleInput processes clicks and hover. Returns true when the panel
// consumed the input.
func (p *Panel) HandleInput(input *InputHandler) bool {
	consumed := false
	for _, btn := range p.buttons() {
		btn.hovered = input.IsInBounds(btn.X, btn.Y, btn.W, btn.H)
		if btn.hovered && input.IsLeftJustPressed() {
			btn.OnClick()
			consumed = true
		}
	}

	// Scroll the move list with the wheel while hovering the panel.
	if mx, _ := input.MousePosition(); mx >= BoardSize {
		_, dy := ebiten.Wheel()
		if dy != 0 {
			p.scrollY -= int(dy) * movesPerScroll
			if p.scrollY < 0 {
				p.scrollY = 0
			}
		}
	}

	return consumed
}

func (p *Panel) buttons() []*Button {
	return []*Button{p.newGameBtn, p.soundBtn, p.targetsBtn}
}

// AnyButtonHovered reports whether the cursor is over any button.
func (p *Panel) AnyButtonHovered() bool {
	for _, btn := range p.buttons() {
		if btn.hovered {
			return true
		}
	}
	return false
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image) {
	scale := UIScale
	s := func(v int) float32 { return float32(float64(v) * scale) }

	vector.DrawFilledRect(screen, s(BoardSize), 0, s(PanelWidth), s(ScreenHeight), panelBg, false)

	p.drawTitle(screen, scale)
	p.drawStatus(screen, scale)

	p.soundBtn.active = p.game.SoundEnabled()
	p.targetsBtn.active = p.game.TargetsEnabled()
	for _, btn := range p.buttons() {
		p.drawButton(screen, btn, scale)
	}

	p.drawMoveList(screen, scale)
	p.drawStats(screen, scale)
}

func (p *Panel) drawTitle(screen *ebiten.Image, scale float64) {
	face := GetBoldFace()
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(BoardSize+PanelPadding)*scale, float64(PanelPadding)*scale)
	op.ColorScale.ScaleWithColor(textPrimary)
	text.Draw(screen, "QuickChess", face, op)
}

func (p *Panel) drawStatus(screen *ebiten.Image, scale float64) {
	face := GetRegularFace()
	if face == nil {
		return
	}

	ctrl := p.game.Controller()
	var line string
	var c color.RGBA
	switch ctrl.Phase() {
	case session.PhaseGameOver:
		line = ctrl.StatusText()
		c = statusGameOver
	case session.PhaseEngineTurn:
		line = "Black is thinking..."
		c = statusThinking
	default:
		line = "Your move"
		c = textSecondary
	}

	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(BoardSize+PanelPadding)*scale, 44*scale)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, line, face, op)
}

func (p *Panel) drawButton(screen *ebiten.Image, btn *Button, scale float64) {
	s := func(v int) float32 { return float32(float64(v) * scale) }

	bg := buttonBg
	if btn.active {
		bg = buttonActiveBg
	} else if btn.hovered {
		bg = buttonHoverBg
	}
	vector.DrawFilledRect(screen, s(btn.X), s(btn.Y), s(btn.W), s(btn.H), bg, false)
	vector.StrokeRect(screen, s(btn.X), s(btn.Y), s(btn.W), s(btn.H), float32(scale), buttonBorder, false)

	face := GetRegularFace()
	if face == nil {
		return
	}
	w, h := MeasureText(btn.Label, face)
	tx := (float64(btn.X) + (float64(btn.W)-w)/2) * scale
	ty := (float64(btn.Y) + (float64(btn.H)-h)/2) * scale

	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(tx, ty)
	op.ColorScale.ScaleWithColor(textPrimary)
	text.Draw(screen, btn.Label, face, op)
}

// drawMoveList renders the numbered move pairs, newest rows scrolled into
// view unless the user has scrolled up.
func (p *Panel) drawMoveList(screen *ebiten.Image, scale float64) {
	face := GetRegularFace()
	if face == nil {
		return
	}

	history := p.game.Controller().SANHistory()
	listTop := 160
	listBottom := ScreenHeight - 56
	visibleRows := (listBottom - listTop) / moveRowHeight

	totalRows := (len(history) + 1) / 2
	maxScroll := totalRows - visibleRows
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.scrollY > maxScroll {
		p.scrollY = maxScroll
	}
	firstRow := maxScroll - p.scrollY

	for i := 0; i < visibleRows; i++ {
		row := firstRow + i
		if row < 0 || row >= totalRows {
			continue
		}

		y := listTop + i*moveRowHeight
		if row%2 == 1 {
			vector.DrawFilledRect(screen,
				float32(float64(BoardSize+PanelPadding-4)*scale), float32(float64(y-2)*scale),
				float32(float64(PanelWidth-PanelPadding*2+8)*scale), float32(float64(moveRowHeight)*scale),
				moveRowAlt, false)
		}

		white := history[row*2]
		black := ""
		if row*2+1 < len(history) {
			black = history[row*2+1]
		}
		line := fmt.Sprintf("%d. %-8s %s", row+1, white, black)

		op := &text.DrawOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(float64(BoardSize+PanelPadding)*scale, float64(y)*scale)
		op.ColorScale.ScaleWithColor(textPrimary)
		text.Draw(screen, line, face, op)
	}
}

func (p *Panel) drawStats(screen *ebiten.Image, scale float64) {
	face := GetRegularFace()
	if face == nil {
		return
	}
	stats := p.game.Stats()
	if stats == nil {
		return
	}
	line := fmt.Sprintf("W %d  L %d  D %d", stats.Wins, stats.Losses, stats.Draws)
	if stats.GamesPlayed > 0 {
		line = fmt.Sprintf("%s  %.0f%%", line, stats.WinRate())
	}

	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(BoardSize+PanelPadding)*scale, float64(ScreenHeight-36)*scale)
	op.ColorScale.ScaleWithColor(textSecondary)
	text.Draw(screen, line, face, op)
}
