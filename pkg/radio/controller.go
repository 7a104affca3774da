// ABOUTME: Controller keeps at most one active playback session
// ABOUTME: Playing a new URL stops and drains the previous session first
package radio

import "sync"

// Controller serializes sessions for one controlling context, such as a UI
type Controller struct {
	player   *Player
	observer Observer

	mu      sync.Mutex
	current *Session
}

// NewController creates a controller reporting every session to observer
func NewController(player *Player, observer Observer) *Controller {
	return &Controller{
		player:   player,
		observer: observer,
	}
}

// Play stops the current session, waits for its resources to be released,
// then launches a session for url
func (c *Controller) Play(url string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	s, err := c.player.Launch(url, c.observer)
	if err != nil {
		return nil, err
	}
	c.current = s
	return s, nil
}

// Stop ends the current session, if any, and waits for it to finish
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
}

// Current returns the most recently launched session, or nil
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current
}

func (c *Controller) stopLocked() {
	if c.current == nil {
		return
	}
	c.current.Stop()
	c.current.Wait()
	c.current = nil
}
