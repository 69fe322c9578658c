package app

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/signviewer/internal/config"
	"github.com/depeter/signviewer/internal/crops"
	"github.com/depeter/signviewer/internal/dataset"
	"github.com/depeter/signviewer/internal/jellyfin"
	"github.com/depeter/signviewer/internal/navigation"
	"github.com/depeter/signviewer/internal/overlay"
	"github.com/depeter/signviewer/internal/player"
	"github.com/depeter/signviewer/internal/remote"
	"github.com/depeter/signviewer/internal/ui"
)

const (
	toggleW = 150
	toggleH = 28
)

// overlayToggle is a toggle button bound to one overlay flag.
type overlayToggle struct {
	ui.Toggle
	get func(player.Overlays) bool
	set func(bool)
}

// Game implements ebiten.Game. The ebiten window is the control panel; the
// video plays in mpv's own window with the overlay drawn on its OSD.
type Game struct {
	Config  *config.Config
	Dataset *dataset.Dataset

	Width, Height int

	controller *player.Controller
	handle     *player.Handle
	shortcuts  *player.ShortcutDispatcher

	bar     *navigation.Bar
	panel   *translationPanel
	overlay *overlaySync
	store   *crops.Store
	views   []*crops.View
	toggles []*overlayToggle
	hub     *remote.Hub

	jf     *jellyfin.Client
	itemID string

	listeners []player.ListenerID
	closed    bool
}

// NewGame builds the panel for a loaded dataset. Nothing plays until Start.
func NewGame(cfg *config.Config, ds *dataset.Dataset, folder *dataset.Folder) *Game {
	g := &Game{
		Config:  cfg,
		Dataset: ds,
		Width:   cfg.UI.Width,
		Height:  cfg.UI.Height,
	}

	c := player.NewController(ds.Video)
	c.SetIsLooping(cfg.Playback.Loop)
	c.SetPlaybackSlowdown(cfg.Playback.Slowdown)
	c.SetOverlayPose(cfg.Overlay.Pose)
	c.SetOverlayFace(cfg.Overlay.Face)
	c.SetOverlayLeftHand(cfg.Overlay.LeftHand)
	c.SetOverlayRightHand(cfg.Overlay.RightHand)
	c.OnStateChange = g.onStateChange
	g.controller = c
	g.shortcuts = player.NewShortcutDispatcher(c, buildBindings(cfg.Keybinds))

	g.bar = navigation.NewBar(c, ds.Video, ds.Clips)
	g.bar.Layout(0, 0, float64(g.Width), ui.NavBarHeight)

	g.panel = newTranslationPanel(ds.Clips, float64(g.Width-2*ui.Padding))
	g.listeners = append(g.listeners, c.AddFrameChangeListener(g.panel.onFrame))

	g.store = crops.NewStore(folder, ds.Video.FrameCount)
	for _, cat := range crops.Categories {
		g.store.LoadAsync(cat, func(frames [][]byte) {
			log.Printf("crops: %s ready (%d frames)", cat.Folder(), len(frames))
		})
		g.views = append(g.views, crops.NewView(c, g.store, cat, crops.EbitenDecoder{}))
	}

	g.toggles = []*overlayToggle{
		{
			Toggle: ui.Toggle{Label: "Pose", Accent: overlay.CategoryColor(overlay.CategoryPose)},
			get:    func(o player.Overlays) bool { return o.Pose },
			set:    c.SetOverlayPose,
		},
		{
			Toggle: ui.Toggle{Label: "Face", Accent: overlay.CategoryColor(overlay.CategoryFace)},
			get:    func(o player.Overlays) bool { return o.Face },
			set:    c.SetOverlayFace,
		},
		{
			Toggle: ui.Toggle{Label: "Left hand", Accent: overlay.CategoryColor(overlay.CategoryLeftHand)},
			get:    func(o player.Overlays) bool { return o.LeftHand },
			set:    c.SetOverlayLeftHand,
		},
		{
			Toggle: ui.Toggle{Label: "Right hand", Accent: overlay.CategoryColor(overlay.CategoryRightHand)},
			get:    func(o player.Overlays) bool { return o.RightHand },
			set:    c.SetOverlayRightHand,
		},
	}
	y := g.togglesY()
	for i, t := range g.toggles {
		t.X = ui.Padding + float64(i)*(toggleW+ui.CropGap)
		t.Y = y
		t.W, t.H = toggleW, toggleH
	}
	g.syncToggles()
	return g
}

// UseJellyfin reports playback of itemID to the server.
func (g *Game) UseJellyfin(client *jellyfin.Client, itemID string) {
	g.jf = client
	g.itemID = itemID
}

// Start opens the mpv window, loads mediaURL and attaches it to the controller.
func (g *Game) Start(mediaURL string) error {
	h, err := player.New(g.Config)
	if err != nil {
		return err
	}
	if err := h.LoadFile(mediaURL); err != nil {
		h.Destroy()
		return err
	}
	g.handle = h
	g.controller.Attach(h)

	g.overlay = newOverlaySync(g.Dataset, g.Config.Overlay.Zoom, h, g.controller.Overlays())
	g.listeners = append(g.listeners, g.controller.AddFrameChangeListener(g.overlay.onFrame))

	if g.Config.Remote.Listen != "" {
		hub := remote.NewHub()
		if err := hub.Start(g.Config.Remote.Listen); err != nil {
			log.Printf("remote: %v", err)
		} else {
			g.hub = hub
			g.listeners = append(g.listeners, g.controller.AddFrameChangeListener(g.publishFrame))
			hub.PublishState(g.controller.IsPlaying(), g.controller.IsLooping())
		}
	}

	if g.jf != nil {
		go func(id string) {
			if err := g.jf.ReportPlaybackStart(id, 0); err != nil {
				log.Printf("jellyfin: %v", err)
			}
		}(g.itemID)
	}

	g.shortcuts.Mount()
	return nil
}

// Close tears everything down. The clock is stopped before mpv is destroyed.
func (g *Game) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.shortcuts.Unmount()

	var pos float64
	if g.handle != nil {
		pos = g.handle.CurrentTime()
	}

	for _, v := range g.views {
		v.Close()
	}
	g.bar.Close()
	for _, id := range g.listeners {
		g.controller.RemoveFrameChangeListener(id)
	}
	g.controller.Close()

	if g.hub != nil {
		g.hub.Close()
	}
	if g.jf != nil {
		if err := g.jf.ReportPlaybackStopped(g.itemID, jellyfin.SecondsToTicks(pos)); err != nil {
			log.Printf("jellyfin: %v", err)
		}
	}
	if g.handle != nil {
		g.handle.Destroy()
	}
}

func (g *Game) Update() error {
	if g.closed {
		return ebiten.Termination
	}

	if g.handle != nil {
	drain:
		for {
			select {
			case ev, ok := <-g.handle.Events():
				if !ok {
					log.Printf("player: mpv shut down")
					g.Close()
					return ebiten.Termination
				}
				g.controller.HandleMediaEvent(ev)
			default:
				break drain
			}
		}
		g.overlay.checkViewport()
	}
	g.controller.Tick()

	if g.hub != nil {
	commands:
		for {
			select {
			case cmd := <-g.hub.Commands():
				remote.Apply(g.controller, cmd)
			default:
				break commands
			}
		}
	}

	// Focus is taken before the bar consumes this tick's input so a key
	// that closes the jump field is not also run as a shortcut.
	target := g.bar.Focus()
	g.bar.Update()
	for _, ev := range player.PollKeyEvents(target) {
		g.shortcuts.HandleKey(ev)
	}

	for _, v := range g.views {
		v.Update()
	}
	if x, y, ok := ui.MouseJustClicked(); ok {
		g.handleClick(x, y)
	}

	ui.UpdateInputState()
	return nil
}

func (g *Game) handleClick(x, y int) {
	for _, t := range g.toggles {
		if t.Contains(x, y) {
			t.set(!t.On)
			return
		}
	}
	cy := g.cropsY()
	for i, v := range g.views {
		cx := g.cropX(i)
		if !ui.PointInRect(x, y, cx, cy, ui.CropSize, ui.CropLabel+ui.CropSize) {
			continue
		}
		if t := g.toggleFor(v.Category); t != nil {
			t.set(!t.On)
		}
		return
	}
}

// toggleFor maps a crop category to the overlay it shows.
func (g *Game) toggleFor(cat crops.Category) *overlayToggle {
	switch cat {
	case crops.Face:
		return g.toggles[1]
	case crops.LeftHand:
		return g.toggles[2]
	case crops.RightHand:
		return g.toggles[3]
	}
	return g.toggles[0]
}

func (g *Game) onStateChange() {
	g.syncToggles()
	if g.overlay != nil {
		g.overlay.setVisibility(g.controller.Overlays())
	}
	if g.hub != nil {
		g.hub.PublishState(g.controller.IsPlaying(), g.controller.IsLooping())
	}
	if g.jf != nil && g.handle != nil {
		ticks := jellyfin.SecondsToTicks(g.handle.CurrentTime())
		paused := !g.controller.IsPlaying()
		go func(id string) {
			if err := g.jf.ReportPlaybackProgress(id, ticks, paused); err != nil {
				log.Printf("jellyfin: %v", err)
			}
		}(g.itemID)
	}
}

func (g *Game) syncToggles() {
	o := g.controller.Overlays()
	for _, t := range g.toggles {
		t.On = t.get(o)
	}
}

func (g *Game) publishFrame(ev player.FrameChangeEvent) {
	g.hub.PublishFrame(ev.FrameIndex, g.Dataset.Clips.ClipIndexForFrame(ev.FrameIndex))
}

func (g *Game) cropsY() float64     { return ui.NavBarHeight + ui.Padding }
func (g *Game) cropX(i int) float64 { return ui.Padding + float64(i)*(ui.CropSize+ui.CropGap) }
func (g *Game) togglesY() float64   { return g.cropsY() + ui.CropLabel + ui.CropSize + ui.Padding }
func (g *Game) panelY() float64     { return g.togglesY() + toggleH + ui.Padding*2 }

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ui.ColorBackground)
	g.bar.Draw(screen)

	y := g.cropsY()
	for i, v := range g.views {
		v.Draw(screen, g.cropX(i), y, ui.CropSize)
	}
	for _, t := range g.toggles {
		t.Draw(screen)
	}
	g.panel.Draw(screen, ui.Padding, g.panelY())
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Width, g.Height
}
