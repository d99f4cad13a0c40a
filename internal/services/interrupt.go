package services

import "time"

// interruptWindow is how long the first Ctrl+C stays armed before the exit
// hint expires.
const interruptWindow = time.Second

// interruptGuard implements the double-interrupt exit protocol for the
// interactive loop: the first interrupt arms a short window, a second
// interrupt inside that window exits.
type interruptGuard struct {
	window time.Duration
	now    func() time.Time
	armed  time.Time
}

func newInterruptGuard() *interruptGuard {
	return &interruptGuard{window: interruptWindow, now: time.Now}
}

// ShouldExit records one interrupt and reports whether it is the second one
// within the window. A late second interrupt re-arms instead of exiting.
func (g *interruptGuard) ShouldExit() bool {
	now := g.now()
	if !g.armed.IsZero() && now.Sub(g.armed) <= g.window {
		return true
	}
	g.armed = now
	return false
}
