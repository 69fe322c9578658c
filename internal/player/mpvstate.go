package player

// frameGate filters mpv's estimated-frame-number. The estimate is computed
// from time-pos, so it only follows painted frames while playback advances on
// its own. It is withheld while paused, and after a seek or an unpause until
// the estimate moves past the value first seen.
type frameGate struct {
	held    bool
	hasBase bool
	base    int
}

func newFrameGate() frameGate { return frameGate{held: true} }

// hold withholds the counter until it next moves.
func (g *frameGate) hold() {
	g.held = true
	g.hasBase = false
}

// observe returns n and whether the clock may trust it.
func (g *frameGate) observe(n int, paused bool) (int, bool) {
	if paused {
		g.hold()
		return 0, false
	}
	if g.held {
		if !g.hasBase {
			g.base, g.hasBase = n, true
			return 0, false
		}
		if n == g.base {
			return 0, false
		}
		g.held = false
	}
	return n, true
}

// seekState remembers the target of a seek mpv has accepted but not yet
// finished.
type seekState struct {
	active bool
	target float64
}

// start runs the seek command and records target only if mpv accepted it.
func (s *seekState) start(target float64, run func() error) error {
	if err := run(); err != nil {
		return err
	}
	s.active = true
	s.target = target
	return nil
}

// done clears the seek and reports whether one was in flight.
func (s *seekState) done() bool {
	was := s.active
	s.active = false
	return was
}
