//go:build windows

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/alex-vit/cvfilter/filter"
	"github.com/alex-vit/cvfilter/icon"
	"github.com/alex-vit/cvfilter/internal/hotkey"
	"github.com/alex-vit/cvfilter/internal/magnify"
	"github.com/alex-vit/cvfilter/internal/update"
	"github.com/energye/systray"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

var version = ""

var logPath string

const (
	vk0          = 0x30
	registryKey  = `Software\Microsoft\Windows\CurrentVersion\Run`
	registryName = "CVFilter"
	releaseRepo  = "alex-vit/cvfilter"
	releaseAsset = "cvfilter.exe"
)

var (
	ctrl        *filter.Controller
	sink        *magnify.Sink
	typeItems   map[filter.Deficiency]*systray.MenuItem
	presetItems map[int]*systray.MenuItem
	mAutostart  *systray.MenuItem
	mHotkeys    *systray.MenuItem
	hotkeys     *hotkey.Listener

	// uiMu serializes menu, hotkey and slider actions that touch cfg.
	uiMu sync.Mutex
)

type isoLogWriter struct{ w io.Writer }

func (lw isoLogWriter) Write(p []byte) (int, error) {
	return fmt.Fprintf(lw.w, "%s %s", time.Now().Format("2006-01-02 15:04:05"), p)
}

func displayVersion() string {
	if version != "" {
		return version
	}
	return "dev"
}

func main() {
	name, _ := windows.UTF16PtrFromString("CVFilterMutex")
	if _, err := windows.CreateMutex(nil, false, name); err == windows.ERROR_ALREADY_EXISTS {
		return
	}

	log.SetFlags(0)
	dataDir = filepath.Join(os.Getenv("LocalAppData"), "CVFilter")
	os.MkdirAll(dataDir, 0o755)
	logPath = filepath.Join(dataDir, "log.txt")
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		log.SetOutput(isoLogWriter{f})
	}
	log.Printf("CVFilter %s starting", displayVersion())

	if exe, err := os.Executable(); err == nil {
		update.CleanOld(exe)
	}
	loadConfig()

	systray.Run(onReady, onExit)
}

func onReady() {
	systray.SetIcon(icon.Generate(filter.Identity()))
	systray.SetTooltip("CVFilter")

	title := "CVFilter " + displayVersion()
	mTitle := systray.AddMenuItem(title, "")
	mTitle.Disable()
	systray.AddMenuItem("Open log", "Open log file").Click(func() {
		exec.Command("rundll32", "url.dll,FileProtocolHandler", logPath).Start()
	})
	systray.AddSeparator()

	if cfg.AutoUpdate {
		go autoUpdate()
	}

	var err error
	sink, err = magnify.New()
	if err != nil {
		log.Printf("magnification unavailable: %v", err)
		mErr := systray.AddMenuItem("Screen filters unavailable", "")
		mErr.Disable()
		systray.AddSeparator()
		addQuit()
		return
	}
	ctrl = filter.NewController(sink)

	typeItems = make(map[filter.Deficiency]*systray.MenuItem)
	for _, d := range filter.Deficiencies {
		label := d.Title()
		if d == filter.None {
			label = "Off"
		}
		item := systray.AddMenuItem(label, "")
		typeItems[d] = item
		item.Click(func() { applyType(d) })
	}
	systray.AddSeparator()

	// Intensity presets: 100, 90, ..., 10 (descending)
	presetItems = make(map[int]*systray.MenuItem)
	for i := 10; i >= 1; i-- {
		level := i * 10
		item := systray.AddMenuItem(fmt.Sprintf("%d%%", level), fmt.Sprintf("Set intensity to %d%%", level))
		presetItems[level] = item
		item.Click(func() { setIntensity(level) })
	}

	// Left-click: floating slider popup. Right-click: menu.
	go runSlider()
	systray.SetOnClick(func(menu systray.IMenu) { showSlider() })
	systray.SetOnRClick(func(menu systray.IMenu) { menu.ShowMenu() })

	systray.AddSeparator()

	mHotkeys = systray.AddMenuItem("Hotkeys ("+hotkey.Hotkey{Mod: hotkey.ModWin | hotkey.ModAlt, Key: vk0}.String()+"-4)",
		"Select filters with Win+Alt+0..4")
	if cfg.HotkeysEnabled {
		mHotkeys.Check()
	}
	mHotkeys.Click(toggleHotkeys)

	mAutostart = systray.AddMenuItem("Start with Windows", "Launch CVFilter at login")
	if isAutostartEnabled() {
		mAutostart.Check()
	}
	mAutostart.Click(toggleAutostart)

	systray.AddSeparator()
	addQuit()

	// Restore the last session.
	if cfg.Type != filter.None {
		applyType(cfg.Type)
	} else {
		setIntensity(percent(cfg.Intensity))
	}

	// Hotkeys: Win+Alt+0=off, Win+Alt+1=protanopia, ..., Win+Alt+4=achromatopsia
	var keys []hotkey.Hotkey
	for i := range filter.Deficiencies {
		keys = append(keys, hotkey.Hotkey{Mod: hotkey.ModWin | hotkey.ModAlt, Key: vk0 + i})
	}
	hotkeys = hotkey.NewListener(keys)
	go func() {
		if err := hotkeys.Run(func(id int) {
			uiMu.Lock()
			enabled := cfg.HotkeysEnabled
			uiMu.Unlock()
			if enabled {
				applyType(filter.Deficiencies[id])
			}
		}); err != nil {
			log.Printf("hotkey registration error: %v", err)
		}
	}()
}

func onExit() {
	if hotkeys != nil {
		hotkeys.Stop()
	}
	if ctrl != nil {
		if err := ctrl.Close(); err != nil {
			log.Printf("close filter: %v", err)
		}
	}
	if sink != nil {
		sink.Close()
	}
	log.Printf("CVFilter exiting")
}

func autoUpdate() {
	exe, err := os.Executable()
	if err != nil {
		log.Printf("update: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	update.New(releaseRepo, releaseAsset, version).Run(ctx, exe)
}

func applyType(d filter.Deficiency) {
	uiMu.Lock()
	defer uiMu.Unlock()

	log.Printf("applying %s at %d%%", d, percent(cfg.Intensity))
	if err := ctrl.Apply(d, cfg.Intensity); err != nil {
		log.Printf("apply %s: %v", d, err)
	}
	st := ctrl.State()
	cfg.Type = st.Type
	saveConfig()
	refreshUI()
}

func setIntensity(level int) {
	uiMu.Lock()
	defer uiMu.Unlock()

	log.Printf("setting intensity to %d%%", level)
	if err := ctrl.SetIntensity(float64(level) / 100); err != nil {
		log.Printf("set intensity %d%%: %v", level, err)
	}
	st := ctrl.State()
	cfg.Type, cfg.Intensity = st.Type, st.Intensity
	saveConfig()
	refreshUI()
}

// refreshUI syncs checkmarks, icon, tooltip and slider with the controller.
func refreshUI() {
	st := ctrl.State()
	for d, item := range typeItems {
		if d == st.Type {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
	checkItem(presetItems, percent(st.Intensity))

	m := filter.Identity()
	if st.Active {
		m = filter.BuildMatrix(st.Type, st.Intensity)
	}
	systray.SetIcon(icon.Generate(m))
	systray.SetTooltip(tooltip(st))
	syncSlider(percent(st.Intensity))
}

func toggleHotkeys() {
	uiMu.Lock()
	defer uiMu.Unlock()

	cfg.HotkeysEnabled = !cfg.HotkeysEnabled
	if cfg.HotkeysEnabled {
		mHotkeys.Check()
	} else {
		mHotkeys.Uncheck()
	}
	saveConfig()
}

func toggleAutostart() {
	if mAutostart.Checked() {
		if err := autostartDisable(); err != nil {
			log.Printf("failed to disable autostart: %v", err)
			return
		}
		mAutostart.Uncheck()
	} else {
		if err := autostartEnable(); err != nil {
			log.Printf("failed to enable autostart: %v", err)
			return
		}
		mAutostart.Check()
	}
}

func checkItem(items map[int]*systray.MenuItem, level int) {
	nearest := nearestPreset(level)
	for l, item := range items {
		if l == nearest {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

func addQuit() {
	systray.AddMenuItem("Quit", "Quit CVFilter").Click(func() { systray.Quit() })
}

func isAutostartEnabled() bool {
	k, err := registry.OpenKey(registry.CURRENT_USER, registryKey, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer k.Close()
	_, _, err = k.GetStringValue(registryName)
	return err == nil
}

func autostartEnable() error {
	exePath, err := os.Executable()
	if err != nil {
		return err
	}
	k, err := registry.OpenKey(registry.CURRENT_USER, registryKey, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()
	return k.SetStringValue(registryName, `"`+exePath+`"`)
}

func autostartDisable() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, registryKey, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()
	return k.DeleteValue(registryName)
}
