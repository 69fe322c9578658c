package player

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/depeter/signviewer/internal/ui"
)

// KeyAction represents a player action triggered by a key.
type KeyAction int

const (
	ActionNone KeyAction = iota
	ActionPlayPause
	ActionNextFrame
	ActionPrevFrame
	ActionToggleLoop
	ActionSpeedNormal
	ActionSpeedHalf
	ActionSpeedQuarter
	ActionPictureInPicture
)

// Modifier is a bit set of held modifier keys.
type Modifier int

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// FocusTarget describes what had input focus when a key was pressed.
type FocusTarget int

const (
	TargetNone FocusTarget = iota
	TargetButton
	TargetTextInput
	TargetTextArea
)

// AcceptsText reports whether the target consumes typed characters.
func (t FocusTarget) AcceptsText() bool {
	return t == TargetTextInput || t == TargetTextArea
}

// KeyEvent is a single key press.
type KeyEvent struct {
	Key       ebiten.Key
	Modifiers Modifier
	Target    FocusTarget
}

// Bindings maps keys to actions.
type Bindings map[ebiten.Key]KeyAction

// DefaultBindings returns the built-in shortcuts.
func DefaultBindings() Bindings {
	return Bindings{
		ebiten.KeySpace:      ActionPlayPause,
		ebiten.KeyArrowRight: ActionNextFrame,
		ebiten.KeyArrowLeft:  ActionPrevFrame,
		ebiten.KeyL:          ActionToggleLoop,
		ebiten.KeyQ:          ActionSpeedNormal,
		ebiten.KeyW:          ActionSpeedHalf,
		ebiten.KeyE:          ActionSpeedQuarter,
		ebiten.KeyP:          ActionPictureInPicture,
	}
}

// ShortcutDispatcher maps key presses to controller actions while mounted.
type ShortcutDispatcher struct {
	c        *Controller
	bindings Bindings
	mounted  bool
}

// NewShortcutDispatcher creates an unmounted dispatcher. A nil bindings map
// uses DefaultBindings.
func NewShortcutDispatcher(c *Controller, b Bindings) *ShortcutDispatcher {
	if b == nil {
		b = DefaultBindings()
	}
	return &ShortcutDispatcher{c: c, bindings: b}
}

// Mount starts handling keys.
func (d *ShortcutDispatcher) Mount() { d.mounted = true }

// Unmount stops handling keys.
func (d *ShortcutDispatcher) Unmount() { d.mounted = false }

// Mounted reports whether the dispatcher handles keys.
func (d *ShortcutDispatcher) Mounted() bool { return d.mounted }

// Resolve returns the action bound to ev, or ActionNone when the event must
// be ignored: text entry has focus, a modifier is held, or the key is unbound.
func (d *ShortcutDispatcher) Resolve(ev KeyEvent) KeyAction {
	if !d.mounted || ev.Target.AcceptsText() || ev.Modifiers != 0 {
		return ActionNone
	}
	return d.bindings[ev.Key]
}

// HandleKey runs the action bound to ev. It reports whether one ran.
func (d *ShortcutDispatcher) HandleKey(ev KeyEvent) bool {
	a := d.Resolve(ev)
	if a == ActionNone {
		return false
	}
	HandleAction(d.c, a)
	return true
}

// HandleAction executes a player action.
func HandleAction(c *Controller, action KeyAction) {
	switch action {
	case ActionPlayPause:
		c.TogglePlay()
	case ActionNextFrame:
		c.SeekToFrame(c.CurrentFrameIndex() + 1)
	case ActionPrevFrame:
		c.SeekToFrame(c.CurrentFrameIndex() - 1)
	case ActionToggleLoop:
		c.SetIsLooping(!c.IsLooping())
	case ActionSpeedNormal:
		c.SetPlaybackSlowdown(1)
	case ActionSpeedHalf:
		c.SetPlaybackSlowdown(2)
	case ActionSpeedQuarter:
		c.SetPlaybackSlowdown(4)
	case ActionPictureInPicture:
		c.TogglePictureInPicture()
	}
}

// PollKeyEvents returns the keys that fire this tick, including auto-repeat
// of held keys, tagged with the held modifiers and the given focus target.
func PollKeyEvents(target FocusTarget) []KeyEvent {
	keys := inpututil.AppendPressedKeys(nil)
	if len(keys) == 0 {
		return nil
	}
	mods := heldModifiers()
	events := make([]KeyEvent, 0, len(keys))
	for _, k := range keys {
		if isModifierKey(k) || !ui.KeyRepeating(k) {
			continue
		}
		events = append(events, KeyEvent{Key: k, Modifiers: mods, Target: target})
	}
	return events
}

func heldModifiers() Modifier {
	var m Modifier
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		m |= ModMeta
	}
	return m
}

func isModifierKey(k ebiten.Key) bool {
	switch k {
	case ebiten.KeyShiftLeft, ebiten.KeyShiftRight,
		ebiten.KeyControlLeft, ebiten.KeyControlRight,
		ebiten.KeyAltLeft, ebiten.KeyAltRight,
		ebiten.KeyMetaLeft, ebiten.KeyMetaRight:
		return true
	}
	return false
}
