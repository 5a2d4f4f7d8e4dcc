package kernel

import (
	"errors"
	"strings"
	"sync/atomic"
)

// Rights define which resources a capability grants access to.
type Rights uint8

const (
	RightDraw Rights = 1 << iota
	RightFonts
	RightInput
)

func (r Rights) String() string {
	if r == 0 {
		return "none"
	}
	var parts []string
	if r&RightDraw != 0 {
		parts = append(parts, "draw")
	}
	if r&RightFonts != 0 {
		parts = append(parts, "fonts")
	}
	if r&RightInput != 0 {
		parts = append(parts, "input")
	}
	if rest := r &^ (RightDraw | RightFonts | RightInput); rest != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, "|")
}

var (
	// ErrRevoked is returned when a capability is used after its scope ended.
	ErrRevoked = errors.New("capability revoked")
	// ErrNoRight is returned when a capability lacks the requested right.
	ErrNoRight = errors.New("capability lacks right")
)

type lease struct {
	parent  *lease
	revoked atomic.Bool
}

func (l *lease) live() bool {
	for ; l != nil; l = l.parent {
		if l.revoked.Load() {
			return false
		}
	}
	return true
}

// Capability grants time-bounded access to a set of resources.
//
// It is opaque by construction (no exported fields). Copies share the same
// lease: revoking any copy revokes all of them, and revoking a capability also
// revokes every capability derived from it with Sub.
type Capability struct {
	l      *lease
	rights Rights
}

// Grant issues a new live capability with the given rights.
func Grant(rights Rights) Capability {
	if rights == 0 {
		return Capability{}
	}
	return Capability{l: &lease{}, rights: rights}
}

func (c Capability) valid() bool {
	return c.rights != 0 && c.l != nil && c.l.live()
}

// Valid reports whether the capability has rights and has not been revoked.
func (c Capability) Valid() bool { return c.valid() }

// Rights returns the rights carried by the capability, live or not.
func (c Capability) Rights() Rights { return c.rights }

// Has reports whether the capability is live and carries all of rights.
func (c Capability) Has(rights Rights) bool {
	return c.valid() && c.rights&rights == rights
}

// Check returns nil if the capability is live and carries all of rights.
func (c Capability) Check(rights Rights) error {
	if c.rights == 0 || c.l == nil || !c.l.live() {
		return ErrRevoked
	}
	if c.rights&rights != rights {
		return ErrNoRight
	}
	return nil
}

// Restrict returns a capability with a reduced set of rights sharing the same lease.
func (c Capability) Restrict(rights Rights) Capability {
	if !c.valid() {
		return Capability{}
	}
	r := c.rights & rights
	if r == 0 {
		return Capability{}
	}
	return Capability{l: c.l, rights: r}
}

// Sub derives a nested capability that can be revoked on its own and dies with its parent.
func (c Capability) Sub(rights Rights) Capability {
	r := c.Restrict(rights)
	if !r.valid() {
		return Capability{}
	}
	return Capability{l: &lease{parent: c.l}, rights: r.rights}
}

// Revoke ends the capability. It is safe to call more than once.
func (c Capability) Revoke() {
	if c.l != nil {
		c.l.revoked.Store(true)
	}
}
