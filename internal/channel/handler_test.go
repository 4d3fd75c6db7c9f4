package channel

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/alex-vit/cvfilter/filter"
	"github.com/google/go-cmp/cmp"
)

type fakeSink struct {
	ops  []string
	fail error
}

func (s *fakeSink) Install(filter.ColorTransform) error {
	s.ops = append(s.ops, "install")
	return s.fail
}

func (s *fakeSink) Update(filter.ColorTransform) error {
	s.ops = append(s.ops, "update")
	return s.fail
}

func (s *fakeSink) Remove() error {
	s.ops = append(s.ops, "remove")
	return nil
}

type grantAll struct{}

func (grantAll) HasPermission() bool     { return true }
func (grantAll) RequestPermission() bool { return true }

func call(t *testing.T, h *Handler, method, args string) any {
	t.Helper()
	got, err := h.Call(method, json.RawMessage(args))
	if err != nil {
		t.Fatalf("Call(%s, %s): %v", method, args, err)
	}
	return got
}

func TestHandlerApplyAndState(t *testing.T) {
	sink := &fakeSink{}
	h := NewHandler(filter.NewController(sink), nil)

	if got := call(t, h, MethodApply, `{"type":"protanopia","intensity":1.0}`); got != true {
		t.Errorf("apply = %v, want true", got)
	}
	if got := call(t, h, MethodSetIntensity, `{"intensity":0.5}`); got != true {
		t.Errorf("setIntensity = %v, want true", got)
	}
	want := filter.State{Type: filter.Protanopia, Intensity: 0.5, Active: true}
	if diff := cmp.Diff(want, call(t, h, MethodGetState, "")); diff != "" {
		t.Errorf("getState (-want +got):\n%s", diff)
	}
	if got := call(t, h, MethodRemove, ""); got != true {
		t.Errorf("remove = %v, want true", got)
	}
	if diff := cmp.Diff([]string{"install", "update", "remove"}, sink.ops); diff != "" {
		t.Errorf("sink ops (-want +got):\n%s", diff)
	}
}

func TestHandlerUnknownType(t *testing.T) {
	h := NewHandler(filter.NewController(&fakeSink{}), nil)
	if got := call(t, h, MethodApply, `{"type":"not-a-real-type","intensity":0.7}`); got != true {
		t.Errorf("apply = %v, want true", got)
	}
	st := call(t, h, MethodGetState, "").(filter.State)
	if st.Type.String() != "none" || st.Active {
		t.Errorf("state = %+v, want none inactive", st)
	}
}

func TestHandlerDefaults(t *testing.T) {
	h := NewHandler(filter.NewController(&fakeSink{}), nil)
	call(t, h, MethodApply, `{"type":"tritanopia"}`)
	if st := call(t, h, MethodGetState, "").(filter.State); st.Intensity != 1 || st.Type != filter.Tritanopia {
		t.Errorf("state = %+v, want tritanopia at 1", st)
	}
	call(t, h, MethodApply, `{}`)
	if st := call(t, h, MethodGetState, "").(filter.State); st.Active {
		t.Errorf("apply without type activated: %+v", st)
	}
}

func TestHandlerSinkFailure(t *testing.T) {
	h := NewHandler(filter.NewController(&fakeSink{fail: errors.New("no overlay")}), nil)
	if got := call(t, h, MethodApply, `{"type":"deuteranopia","intensity":0.4}`); got != false {
		t.Errorf("apply = %v, want false", got)
	}
	if st := call(t, h, MethodGetState, "").(filter.State); st.Active {
		t.Errorf("state = %+v, want inactive", st)
	}
}

func TestHandlerErrors(t *testing.T) {
	h := NewHandler(filter.NewController(&fakeSink{}), nil)
	tests := []struct {
		method, args string
		want         error
	}{
		{"launchRockets", "", ErrNotImplemented},
		{MethodApply, "", ErrInvalidArgument},
		{MethodApply, `"protanopia"`, ErrInvalidArgument},
		{MethodApply, `{"intensity":"high"}`, ErrInvalidArgument},
		{MethodSetIntensity, `[0.5]`, ErrInvalidArgument},
	}
	for _, tt := range tests {
		if _, err := h.Call(tt.method, json.RawMessage(tt.args)); !errors.Is(err, tt.want) {
			t.Errorf("Call(%s, %s) error = %v, want %v", tt.method, tt.args, err, tt.want)
		}
	}
}

func TestHandlerPermissions(t *testing.T) {
	stub := NewHandler(filter.NewController(&fakeSink{}), nil)
	if call(t, stub, MethodHasPermission, "") != false || call(t, stub, MethodRequestPermission, "") != false {
		t.Error("NoPermissions must answer false")
	}
	granted := NewHandler(filter.NewController(&fakeSink{}), grantAll{})
	if call(t, granted, MethodHasPermission, "") != true || call(t, granted, MethodRequestPermission, "") != true {
		t.Error("grantAll must answer true")
	}
}
