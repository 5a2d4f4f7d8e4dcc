package fonts

import (
	"errors"
	"fmt"

	"valewind/hal"
	"valewind/kernel"
)

// Scope binds a Cache to a font subsystem for the duration of one rendering
// scope. Handles it resolves are closed when the scope ends, and the scope
// itself stops working at the same moment.
type Scope struct {
	c       *Cache
	sys     hal.FontSystem
	cap     kernel.Capability
	handles []*Handle
}

// NewScope opens a scope. cap must carry kernel.RightFonts; revoking it ends
// the scope for every holder. The owner calls End after revoking.
func NewScope(c *Cache, sys hal.FontSystem, cap kernel.Capability) *Scope {
	return &Scope{c: c, sys: sys, cap: cap}
}

func (s *Scope) check() error {
	if s == nil || s.sys == nil {
		return ErrExpired
	}
	if err := s.cap.Check(kernel.RightFonts); err != nil {
		return fmt.Errorf("%w: %w", ErrExpired, err)
	}
	return nil
}

// Register stores a descriptor after a trial reconstruction. See Cache.Register.
func (s *Scope) Register(name, path string, size int, style Style) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.c.Register(s.sys, name, path, size, style)
}

// Resolve rebuilds the font registered under name, auto-registering
// (path, size) when name is unknown. See Cache.Resolve.
func (s *Scope) Resolve(name, path string, size int) (*Handle, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	h, err := s.c.Resolve(s.sys, name, path, size)
	if err != nil {
		return nil, err
	}
	h.cap = s.cap
	h.scoped = true
	s.handles = append(s.handles, h)
	return h, nil
}

// Lookup returns the descriptor registered under name.
func (s *Scope) Lookup(name string) (Descriptor, bool) {
	if s.check() != nil {
		return Descriptor{}, false
	}
	return s.c.Lookup(name)
}

// End closes every handle resolved through the scope and drops the font
// subsystem reference. It is safe to call more than once.
func (s *Scope) End() error {
	var errs []error
	for _, h := range s.handles {
		if err := h.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", h.desc.Name, err))
		}
	}
	s.handles = nil
	s.sys = nil
	return errors.Join(errs...)
}
