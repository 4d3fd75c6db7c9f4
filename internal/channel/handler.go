// Package channel exposes a filter.Controller through named method calls,
// the way a host UI drives the filter.
package channel

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/alex-vit/cvfilter/filter"
)

// Method names understood by Handler.
const (
	MethodApply             = "apply"
	MethodSetIntensity      = "setIntensity"
	MethodRemove            = "remove"
	MethodGetState          = "getState"
	MethodHasPermission     = "hasPermission"
	MethodRequestPermission = "requestPermission"
)

var (
	ErrNotImplemented  = errors.New("method not implemented")
	ErrInvalidArgument = errors.New("invalid arguments")
)

// Permissions answers whether the host allows a filter surface.
type Permissions interface {
	HasPermission() bool
	RequestPermission() bool
}

// NoPermissions is the placeholder for hosts whose permission flow has not
// been implemented yet. It always answers false rather than pretending the
// permission was granted.
type NoPermissions struct{}

func (NoPermissions) HasPermission() bool     { return false }
func (NoPermissions) RequestPermission() bool { return false }

// Handler dispatches method calls to a controller.
type Handler struct {
	ctrl  *filter.Controller
	perms Permissions
}

// NewHandler returns a Handler for ctrl. A nil perms means NoPermissions.
func NewHandler(ctrl *filter.Controller, perms Permissions) *Handler {
	if perms == nil {
		perms = NoPermissions{}
	}
	return &Handler{ctrl: ctrl, perms: perms}
}

type applyArgs struct {
	Type      *string  `json:"type"`
	Intensity *float64 `json:"intensity"`
}

// Call invokes method with JSON-encoded args. Sink failures are reported as a
// false result, not an error.
func (h *Handler) Call(method string, args json.RawMessage) (any, error) {
	switch method {
	case MethodApply:
		a, err := decodeArgs(args)
		if err != nil {
			return nil, err
		}
		typ := filter.None
		if a.Type != nil {
			typ = filter.ParseDeficiency(*a.Type)
		}
		return h.result(method, h.ctrl.Apply(typ, intensityOr(a.Intensity)))
	case MethodSetIntensity:
		a, err := decodeArgs(args)
		if err != nil {
			return nil, err
		}
		return h.result(method, h.ctrl.SetIntensity(intensityOr(a.Intensity)))
	case MethodRemove:
		return h.result(method, h.ctrl.Remove())
	case MethodGetState:
		return h.ctrl.State(), nil
	case MethodHasPermission:
		return h.perms.HasPermission(), nil
	case MethodRequestPermission:
		return h.perms.RequestPermission(), nil
	default:
		log.Printf("channel: unknown method %q", method)
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, method)
	}
}

func (h *Handler) result(method string, err error) (any, error) {
	if err != nil {
		log.Printf("channel: %s failed: %v", method, err)
		return false, nil
	}
	return true, nil
}

func decodeArgs(raw json.RawMessage) (applyArgs, error) {
	var a applyArgs
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return a, ErrInvalidArgument
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return a, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return a, nil
}

func intensityOr(v *float64) float64 {
	if v == nil {
		return filter.DefaultIntensity
	}
	return *v
}
