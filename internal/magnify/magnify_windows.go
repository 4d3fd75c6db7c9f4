//go:build windows

package magnify

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"unsafe"

	"github.com/alex-vit/cvfilter/filter"
	"golang.org/x/sys/windows"
)

var (
	modMagnification                = windows.NewLazySystemDLL("magnification.dll")
	procMagInitialize               = modMagnification.NewProc("MagInitialize")
	procMagUninitialize             = modMagnification.NewProc("MagUninitialize")
	procMagSetFullscreenColorEffect = modMagnification.NewProc("MagSetFullscreenColorEffect")
)

// Sink applies transforms with MagSetFullscreenColorEffect. All API calls run
// on one locked OS thread, the one that called MagInitialize.
type Sink struct {
	mu     sync.Mutex
	closed bool
	calls  chan func()
	done   chan struct{}
}

// New initializes the magnification runtime.
func New() (*Sink, error) {
	s := &Sink{
		calls: make(chan func()),
		done:  make(chan struct{}),
	}
	ready := make(chan error, 1)
	go s.run(ready)
	if err := <-ready; err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sink) run(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(s.done)

	if err := procMagInitialize.Find(); err != nil {
		ready <- fmt.Errorf("magnify: %w", err)
		return
	}
	ret, _, err := procMagInitialize.Call()
	if ret == 0 {
		ready <- fmt.Errorf("magnify: MagInitialize failed: %w", err)
		return
	}
	log.Printf("magnify: initialized")
	ready <- nil

	for fn := range s.calls {
		fn()
	}

	if err := setEffect(toEffect(filter.Identity())); err != nil {
		log.Printf("magnify: reset on close: %v", err)
	}
	procMagUninitialize.Call()
	log.Printf("magnify: uninitialized")
}

func (s *Sink) do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	errc := make(chan error, 1)
	s.calls <- func() { errc <- fn() }
	return <-errc
}

// Install applies m full-screen. The fullscreen effect is a single global
// slot, so installing replaces whatever was there.
func (s *Sink) Install(m filter.ColorTransform) error {
	return s.do(func() error { return setEffect(toEffect(m)) })
}

func (s *Sink) Update(m filter.ColorTransform) error {
	return s.do(func() error { return setEffect(toEffect(m)) })
}

// Remove restores the identity effect.
func (s *Sink) Remove() error {
	return s.do(func() error { return setEffect(toEffect(filter.Identity())) })
}

// Close resets the effect and releases the magnification runtime.
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.calls)
	s.mu.Unlock()
	<-s.done
	return nil
}

func setEffect(e colorEffect) error {
	ret, _, err := procMagSetFullscreenColorEffect.Call(uintptr(unsafe.Pointer(&e)))
	if ret == 0 {
		return fmt.Errorf("magnify: MagSetFullscreenColorEffect failed: %w", err)
	}
	return nil
}
