package ui

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/notnil/chess"

	"quickchess/internal/session"
	"quickchess/internal/storage"
)

// Logical screen layout. The board fills the left square of the window
// and the panel takes the remaining strip.
const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	SquareSize   = BoardSize / 8
	PanelWidth   = ScreenWidth - BoardSize
)

// UIScale is the device scale factor, updated every Layout call. All
// drawing code multiplies logical coordinates by it.
var UIScale = 1.0

// Game is the top-level ebiten game. It owns the session controller and
// routes input and feedback between it and the widgets.
type Game struct {
	controller *session.Controller
	renderer   *Renderer
	input      *InputHandler
	panel      *Panel
	feedback   *FeedbackManager

	store *storage.Storage
	prefs *storage.Preferences
	stats *storage.Stats

	resultRecorded bool
}

// NewGame builds the game. store may be nil when the preference
// database could not be opened; play still works, nothing persists.
func NewGame(store *storage.Storage) *Game {
	g := &Game{
		controller: session.New(),
		renderer:   NewRenderer(BoardSize, SquareSize),
		input:      NewInputHandler(),
		feedback:   NewFeedbackManager(),
		store:      store,
		prefs:      storage.DefaultPreferences(),
		stats:      storage.NewStats(),
	}
	g.panel = NewPanel(g)

	if store != nil {
		if prefs, err := store.LoadPreferences(); err != nil {
			log.Printf("[STORAGE] load preferences: %v", err)
		} else {
			g.prefs = prefs
		}
		if stats, err := store.LoadStats(); err != nil {
			log.Printf("[STORAGE] load stats: %v", err)
		} else {
			g.stats = stats
		}
	}
	g.feedback.Audio().SetEnabled(g.prefs.SoundEnabled)

	g.controller.OnMove(func(mv *chess.Move) {
		g.feedback.OnMoveMade(mv)
		if g.controller.InCheck() {
			g.feedback.OnCheck()
		}
	})

	return g
}

// Update advances the game one tick.
func (g *Game) Update() error {
	g.input.Update()
	g.feedback.Update()

	if g.panel.HandleInput(g.input) {
		return nil
	}

	if g.input.IsLeftJustPressed() {
		mx, my := g.input.MousePosition()
		if sq := g.renderer.ScreenToSquare(mx, my); sq != session.NoSquare {
			g.controller.SelectOrMove(sq)
		}
	}

	g.controller.PollReply()
	g.checkGameOver()
	g.updateCursor()

	return nil
}

// updateCursor shows a pointer over clickable panel controls.
func (g *Game) updateCursor() {
	if g.panel.AnyButtonHovered() {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// checkGameOver records the result and shows the end-of-game feedback
// exactly once per game.
func (g *Game) checkGameOver() {
	if g.resultRecorded || !g.controller.Status().Terminal() {
		return
	}
	g.resultRecorded = true

	status := g.controller.Status()
	var humanWon bool
	switch g.controller.HumanColor() {
	case chess.White:
		humanWon = status == session.StatusWhiteWins
	case chess.Black:
		humanWon = status == session.StatusBlackWins
	}
	g.feedback.OnGameOver(g.controller.StatusText(), humanWon)

	if g.store == nil {
		return
	}
	result := storage.Result{
		Won:  humanWon,
		Draw: status == session.StatusDraw || status == session.StatusStalemate,
	}
	if err := g.store.RecordResult(result); err != nil {
		log.Printf("[STORAGE] record result: %v", err)
		return
	}
	if stats, err := g.store.LoadStats(); err == nil {
		g.stats = stats
	}
}

// Draw renders one frame.
func (g *Game) Draw(screen *ebiten.Image) {
	ctrl := g.controller

	g.renderer.DrawBoard(screen)

	if ctrl.InCheck() {
		g.renderer.DrawCheck(screen, ctrl.KingSquare(ctrl.Position().Turn()))
	}

	var targets []*chess.Move
	if g.prefs.ShowTargets {
		targets = ctrl.MovesFromSelection()
	}
	g.renderer.DrawHighlights(screen, ctrl.Selection(), targets, ctrl.LastMove())
	g.renderer.DrawPieces(screen, ctrl.Position())

	g.panel.Draw(screen)
	g.feedback.Draw(screen)
}

// Layout reports the rendered size and keeps the scale factor current.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale != UIScale {
		UIScale = scale
		g.renderer.SetScale(scale)
	}
	return int(float64(ScreenWidth) * scale), int(float64(ScreenHeight) * scale)
}

// NewGameAction starts a fresh game.
func (g *Game) NewGameAction() {
	g.controller.Reset()
	g.resultRecorded = false

	if g.store != nil {
		g.prefs.LastPlayed = time.Now()
		if err := g.store.SavePreferences(g.prefs); err != nil {
			log.Printf("[STORAGE] save preferences: %v", err)
		}
	}
}

// ToggleSoundAction flips the sound preference.
func (g *Game) ToggleSoundAction() {
	g.prefs.SoundEnabled = !g.prefs.SoundEnabled
	g.feedback.Audio().SetEnabled(g.prefs.SoundEnabled)
	g.savePrefs()
}

// ToggleTargetsAction flips the legal-target hint preference.
func (g *Game) ToggleTargetsAction() {
	g.prefs.ShowTargets = !g.prefs.ShowTargets
	g.savePrefs()
}

func (g *Game) savePrefs() {
	if g.store == nil {
		return
	}
	if err := g.store.SavePreferences(g.prefs); err != nil {
		log.Printf("[STORAGE] save preferences: %v", err)
	}
}

// Controller exposes the session controller to the widgets.
func (g *Game) Controller() *session.Controller {
	return g.controller
}

// Stats returns the lifetime statistics, never nil.
func (g *Game) Stats() *storage.Stats {
	return g.stats
}

// SoundEnabled reports the current sound preference.
func (g *Game) SoundEnabled() bool {
	return g.prefs.SoundEnabled
}

// TargetsEnabled reports the legal-target hint preference.
func (g *Game) TargetsEnabled() bool {
	return g.prefs.ShowTargets
}
