package app

import (
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/signviewer/internal/config"
	"github.com/depeter/signviewer/internal/player"
)

// keyMap maps config key names to ebiten keys.
var keyMap = map[string]ebiten.Key{
	"space":      ebiten.KeySpace,
	"enter":      ebiten.KeyEnter,
	"return":     ebiten.KeyEnter,
	"tab":        ebiten.KeyTab,
	"left":       ebiten.KeyArrowLeft,
	"right":      ebiten.KeyArrowRight,
	"up":         ebiten.KeyArrowUp,
	"down":       ebiten.KeyArrowDown,
	"arrowleft":  ebiten.KeyArrowLeft,
	"arrowright": ebiten.KeyArrowRight,
	"arrowup":    ebiten.KeyArrowUp,
	"arrowdown":  ebiten.KeyArrowDown,
	"comma":      ebiten.KeyComma,
	"period":     ebiten.KeyPeriod,
	"a":          ebiten.KeyA,
	"b":          ebiten.KeyB,
	"c":          ebiten.KeyC,
	"d":          ebiten.KeyD,
	"e":          ebiten.KeyE,
	"f":          ebiten.KeyF,
	"g":          ebiten.KeyG,
	"h":          ebiten.KeyH,
	"i":          ebiten.KeyI,
	"j":          ebiten.KeyJ,
	"k":          ebiten.KeyK,
	"l":          ebiten.KeyL,
	"m":          ebiten.KeyM,
	"n":          ebiten.KeyN,
	"o":          ebiten.KeyO,
	"p":          ebiten.KeyP,
	"q":          ebiten.KeyQ,
	"r":          ebiten.KeyR,
	"s":          ebiten.KeyS,
	"t":          ebiten.KeyT,
	"u":          ebiten.KeyU,
	"v":          ebiten.KeyV,
	"w":          ebiten.KeyW,
	"x":          ebiten.KeyX,
	"y":          ebiten.KeyY,
	"z":          ebiten.KeyZ,
	"0":          ebiten.KeyDigit0,
	"1":          ebiten.KeyDigit1,
	"2":          ebiten.KeyDigit2,
	"3":          ebiten.KeyDigit3,
	"4":          ebiten.KeyDigit4,
	"5":          ebiten.KeyDigit5,
	"6":          ebiten.KeyDigit6,
	"7":          ebiten.KeyDigit7,
	"8":          ebiten.KeyDigit8,
	"9":          ebiten.KeyDigit9,
}

// parseKey converts a config key name to an ebiten.Key.
func parseKey(name string) (ebiten.Key, bool) {
	k, ok := keyMap[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// buildBindings turns the keybind config into shortcut bindings. Unknown or
// empty key names leave that action unbound.
func buildBindings(kb config.KeybindConfig) player.Bindings {
	b := player.Bindings{}
	for _, e := range []struct {
		name   string
		action player.KeyAction
	}{
		{kb.PlayPause, player.ActionPlayPause},
		{kb.NextFrame, player.ActionNextFrame},
		{kb.PrevFrame, player.ActionPrevFrame},
		{kb.ToggleLoop, player.ActionToggleLoop},
		{kb.SpeedNormal, player.ActionSpeedNormal},
		{kb.SpeedHalf, player.ActionSpeedHalf},
		{kb.SpeedQuarter, player.ActionSpeedQuarter},
		{kb.PictureInPicture, player.ActionPictureInPicture},
	} {
		if e.name == "" {
			continue
		}
		k, ok := parseKey(e.name)
		if !ok {
			log.Printf("keybinds: unknown key %q", e.name)
			continue
		}
		if prev, taken := b[k]; taken {
			log.Printf("keybinds: %q bound twice, keeping action %d", e.name, prev)
			continue
		}
		b[k] = e.action
	}
	return b
}
