//go:build !windows

package magnify

import (
	"errors"

	"github.com/alex-vit/cvfilter/filter"
)

// Sink is unavailable outside Windows.
type Sink struct{}

// New always fails with errors.ErrUnsupported.
func New() (*Sink, error) {
	return nil, errors.ErrUnsupported
}

func (*Sink) Install(filter.ColorTransform) error { return errors.ErrUnsupported }
func (*Sink) Update(filter.ColorTransform) error  { return errors.ErrUnsupported }
func (*Sink) Remove() error                       { return errors.ErrUnsupported }
func (*Sink) Close() error                        { return nil }
