package filter

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrSink wraps failures reported by a Sink.
	ErrSink = errors.New("filter: surface sink failed")
	// ErrClosed is returned by mutating calls after Close.
	ErrClosed = errors.New("filter: controller closed")
)

// Sink presents a color transform to the user. The controller serializes all
// calls, so implementations need no locking of their own.
type Sink interface {
	// Install creates a surface showing m.
	Install(m ColorTransform) error
	// Update changes the transform of the installed surface in place.
	Update(m ColorTransform) error
	// Remove tears down the installed surface.
	Remove() error
}

// State is a snapshot of the filter session.
type State struct {
	Type      Deficiency `json:"type"`
	Intensity float64    `json:"intensity"`
	Active    bool       `json:"isActive"`
}

// Controller owns one filter session and drives a Sink from it.
// Active is always equivalent to Type != None.
type Controller struct {
	mu        sync.Mutex
	sink      Sink
	state     State
	installed bool
	closed    bool
}

// NewController returns an inactive session with intensity 1.
func NewController(sink Sink) *Controller {
	return &Controller{
		sink:  sink,
		state: State{Type: None, Intensity: DefaultIntensity},
	}
}

// Apply activates d at the given intensity, re-installing the surface.
// Applying None is the same as Remove. On sink failure the session is left
// inactive.
func (c *Controller) Apply(d Deficiency, intensity float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if _, ok := baseMatrices[d]; !ok {
		d = None
	}
	c.state.Intensity = ClampIntensity(intensity)
	if d == None {
		return c.removeLocked()
	}
	c.state.Type = d
	c.state.Active = true

	if c.installed {
		if err := c.sink.Remove(); err != nil {
			c.deactivate()
			return fmt.Errorf("%w: remove before install: %w", ErrSink, err)
		}
		c.installed = false
	}
	if err := c.sink.Install(BuildMatrix(d, c.state.Intensity)); err != nil {
		c.deactivate()
		return fmt.Errorf("%w: install %s: %w", ErrSink, d, err)
	}
	c.installed = true
	return nil
}

// SetIntensity stores the intensity and, if a filter is active, updates the
// installed surface in place.
func (c *Controller) SetIntensity(intensity float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.state.Intensity = ClampIntensity(intensity)
	if !c.state.Active || !c.installed {
		return nil
	}
	if err := c.sink.Update(BuildMatrix(c.state.Type, c.state.Intensity)); err != nil {
		c.deactivate()
		// The surface may still show the old transform.
		if rerr := c.sink.Remove(); rerr == nil {
			c.installed = false
		}
		return fmt.Errorf("%w: update: %w", ErrSink, err)
	}
	return nil
}

// Remove deactivates the filter. It is a no-op when nothing is installed.
func (c *Controller) Remove() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	return c.removeLocked()
}

// State returns the current session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close removes any installed surface and ends the session. Later mutating
// calls return ErrClosed.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	err := c.removeLocked()
	c.closed = true
	return err
}

func (c *Controller) removeLocked() error {
	c.deactivate()
	if !c.installed {
		return nil
	}
	if err := c.sink.Remove(); err != nil {
		// Keep the handle so a later Remove or Close retries.
		return fmt.Errorf("%w: remove: %w", ErrSink, err)
	}
	c.installed = false
	return nil
}

func (c *Controller) deactivate() {
	c.state.Type = None
	c.state.Active = false
}
