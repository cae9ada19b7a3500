// QuickChess - play quick games against a one-move-lookahead computer
package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"quickchess/internal/storage"
	"quickchess/internal/ui"
)

func main() {
	store, err := storage.New()
	if err != nil {
		log.Printf("[STORAGE] open failed, continuing without persistence: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	game := ui.NewGame(store)

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("QuickChess")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
