//go:build windows

package hotkey

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var user32 = windows.NewLazySystemDLL("user32.dll")

var (
	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
)

const (
	wmQuit   = 0x0012
	wmHotkey = 0x0312
)

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      [2]int32
}

// Listener owns one hotkey message loop.
type Listener struct {
	keys []Hotkey

	mu       sync.Mutex
	threadID uint32
	stopped  bool
}

func NewListener(keys []Hotkey) *Listener {
	return &Listener{keys: keys}
}

// Run registers every hotkey and calls fn(id) on each keydown, where id is
// the index into the listener's keys. It blocks until Stop and must run on
// its own goroutine; the OS thread is locked automatically.
//
// Returns the first registration error, if any. The remaining hotkeys are
// still registered.
func (l *Listener) Run(fn func(id int)) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var firstErr error
	for i, hk := range l.keys {
		ret, _, err := procRegisterHotKey.Call(0, uintptr(i+1), uintptr(hk.Mod), uintptr(hk.Key))
		if ret == 0 && firstErr == nil {
			firstErr = fmt.Errorf("RegisterHotKey(%s): %w", hk, err)
		}
	}
	defer func() {
		for i := range l.keys {
			procUnregisterHotKey.Call(0, uintptr(i+1))
		}
	}()

	l.mu.Lock()
	l.threadID = windows.GetCurrentThreadId()
	stopped := l.stopped
	l.mu.Unlock()
	if stopped {
		return firstErr
	}

	var m msg
	for {
		// GetMessageW blocks until a message is available. Returns 0 on WM_QUIT, -1 on error.
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			break
		}
		if m.message == wmHotkey {
			id := int(m.wParam) - 1 // registered with id = index+1
			if id >= 0 && id < len(l.keys) {
				fn(id)
			}
		}
	}
	return firstErr
}

// Stop ends Run's message loop and unregisters the hotkeys.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	if l.threadID != 0 {
		procPostThreadMessageW.Call(uintptr(l.threadID), wmQuit, 0, 0)
	}
}
