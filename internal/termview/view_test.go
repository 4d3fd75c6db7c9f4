package termview

import (
	"image/color"
	"testing"

	"github.com/alex-vit/cvfilter/filter"
	"github.com/gdamore/tcell/v2"
)

type fakeScreen struct {
	w, h  int
	cells map[[2]int]tcell.Style
	runes map[[2]int]rune
	shown int
}

func newFakeScreen(w, h int) *fakeScreen {
	return &fakeScreen{w: w, h: h, cells: map[[2]int]tcell.Style{}, runes: map[[2]int]rune{}}
}

func (s *fakeScreen) SetContent(x, y int, r rune, _ []rune, st tcell.Style) {
	s.cells[[2]int{x, y}] = st
	s.runes[[2]int{x, y}] = r
}

func (s *fakeScreen) Size() (int, int) { return s.w, s.h }
func (s *fakeScreen) Show()            { s.shown++ }

func TestViewLayout(t *testing.T) {
	s := newFakeScreen(20, 11)
	v := New(s)
	if len(v.palette) != 4 || len(v.palette[0]) != 10 {
		t.Fatalf("palette = %dx%d, want 10x4", len(v.palette[0]), len(v.palette))
	}

	if err := v.Install(filter.BuildMatrix(filter.Achromatopsia, 1)); err != nil {
		t.Fatal(err)
	}
	c := v.palette[0][3]
	wantTop := tcell.StyleDefault.Background(cellColor(c))
	if got := s.cells[[2]int{6, 0}]; got != wantTop {
		t.Errorf("top swatch style = %v, want %v", got, wantTop)
	}
	g := filter.BuildMatrix(filter.Achromatopsia, 1).Apply(c)
	wantBottom := tcell.StyleDefault.Background(cellColor(g))
	if got := s.cells[[2]int{7, 5}]; got != wantBottom {
		t.Errorf("filtered swatch style = %v, want %v", got, wantBottom)
	}
	if s.shown != 1 {
		t.Errorf("Show called %d times, want 1", s.shown)
	}

	if err := v.Remove(); err != nil {
		t.Fatal(err)
	}
	if got := s.cells[[2]int{7, 5}]; got != tcell.StyleDefault.Background(cellColor(v.palette[0][3])) {
		t.Errorf("after Remove filtered swatch = %v, want original", got)
	}
}

func TestViewStatus(t *testing.T) {
	s := newFakeScreen(6, 5)
	v := New(s)
	v.SetStatus("protanopia 50%")
	got := ""
	for x := 0; x < 6; x++ {
		got += string(s.runes[[2]int{x, 4}])
	}
	if got != "protan" {
		t.Errorf("status line = %q, want truncated %q", got, "protan")
	}
}

func TestCellColor(t *testing.T) {
	got := cellColor(color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF})
	if want := tcell.NewRGBColor(0x12, 0x34, 0x56); got != want {
		t.Errorf("cellColor = %v, want %v", got, want)
	}
}

func TestViewOnSimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(20, 11)

	v := New(screen)
	ctrl := filter.NewController(v)
	if err := ctrl.Apply(filter.Protanopia, 1); err != nil {
		t.Fatal(err)
	}

	c := v.palette[1][2]
	want := cellColor(filter.BuildMatrix(filter.Protanopia, 1).Apply(c))
	_, _, st, _ := screen.GetContent(4, 6)
	if _, bg, _ := st.Decompose(); bg != want {
		t.Errorf("filtered swatch background = %v, want %v", bg, want)
	}

	screen.SetSize(40, 11)
	v.Resize()
	if got := len(v.palette[0]); got != 20 {
		t.Errorf("after resize palette has %d columns, want 20", got)
	}

	if err := ctrl.Close(); err != nil {
		t.Fatal(err)
	}
	_, _, st, _ = screen.GetContent(4, 6)
	if _, bg, _ := st.Decompose(); bg != cellColor(v.palette[1][2]) {
		t.Errorf("after Close filtered swatch background = %v, want unfiltered", bg)
	}
}
