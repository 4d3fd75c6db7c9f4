// Command cvfilter-term previews the filters on a terminal color chart.
//
// Keys: 0-4 select a filter, +/- change intensity, r removes, q quits.
package main

import (
	"fmt"
	"log"

	"github.com/alex-vit/cvfilter/filter"
	"github.com/alex-vit/cvfilter/internal/termview"
	"github.com/gdamore/tcell/v2"
)

const intensityStep = 0.1

func main() {
	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("cvfilter-term: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("cvfilter-term: %v", err)
	}

	view := termview.New(screen)
	ctrl := filter.NewController(view)

	var lastErr error
	status := func() {
		st := ctrl.State()
		text := "off"
		if st.Active {
			text = fmt.Sprintf("%s %d%%", st.Type.Title(), int(st.Intensity*100+0.5))
		}
		text += "   [0-4] filter  [+/-] intensity  [r] remove  [q] quit"
		if lastErr != nil {
			text = "error: " + lastErr.Error()
		}
		view.SetStatus(text)
	}
	status()

	intensity := filter.DefaultIntensity
	for running := true; running; {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			view.Resize()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
				running = false
			case ev.Key() != tcell.KeyRune:
			case ev.Rune() == 'q':
				running = false
			case ev.Rune() >= '0' && int(ev.Rune()-'0') < len(filter.Deficiencies):
				lastErr = ctrl.Apply(filter.Deficiencies[ev.Rune()-'0'], intensity)
			case ev.Rune() == '+', ev.Rune() == '=':
				intensity = filter.ClampIntensity(intensity + intensityStep)
				lastErr = ctrl.SetIntensity(intensity)
			case ev.Rune() == '-':
				intensity = filter.ClampIntensity(intensity - intensityStep)
				lastErr = ctrl.SetIntensity(intensity)
			case ev.Rune() == 'r':
				lastErr = ctrl.Remove()
			}
			status()
		}
	}

	ctrl.Close()
	screen.Fini()
}
