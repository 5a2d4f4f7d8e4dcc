package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valewind/hal"
	"valewind/kernel"
)

type fakePump struct {
	q kernel.Mailbox[hal.RawEvent]
}

func (p *fakePump) Poll(dst []hal.RawEvent) []hal.RawEvent {
	for {
		ev, ok := p.q.TryRecv()
		if !ok {
			return dst
		}
		dst = append(dst, ev)
	}
}

func (p *fakePump) Close() error { return nil }

func bound(t *testing.T) (*Source, *fakePump, kernel.Capability) {
	t.Helper()
	p := &fakePump{}
	s := NewSource(p)
	grant := kernel.Grant(kernel.RightInput)
	s.Bind(grant)
	return s, p, grant
}

func TestPollEmpty(t *testing.T) {
	s, _, _ := bound(t)
	seq, err := s.Poll()
	require.NoError(t, err)
	for ev := range seq {
		t.Fatalf("unexpected event %v", ev)
	}
}

func TestPollOrderAndDrain(t *testing.T) {
	s, p, _ := bound(t)
	p.q.Send(hal.RawEvent{Kind: hal.RawKeyDown, Code: hal.KeyLeft})
	p.q.Send(hal.RawEvent{Kind: hal.RawKeyUp, Code: hal.KeyLeft})
	p.q.Send(hal.RawEvent{Kind: hal.RawOther, Rune: 'a'})
	p.q.Send(hal.RawEvent{Kind: hal.RawQuit})

	seq, err := s.Poll()
	require.NoError(t, err)

	var got []Event
	for ev := range seq {
		got = append(got, ev)
	}
	assert.Equal(t, []Event{
		{Kind: KeyPressed, Key: hal.KeyLeft},
		{Kind: KeyReleased, Key: hal.KeyLeft},
		{Kind: Other, Rune: 'a'},
		{Kind: Quit},
	}, got)

	for ev := range seq {
		t.Fatalf("sequence restarted with %v", ev)
	}

	again, err := s.Collect()
	require.NoError(t, err)
	assert.Empty(t, again, "queue drained by the first poll")
}

func TestPollResumesAfterBreak(t *testing.T) {
	s, p, _ := bound(t)
	p.q.Send(hal.RawEvent{Kind: hal.RawKeyDown, Code: hal.KeyUp})
	p.q.Send(hal.RawEvent{Kind: hal.RawKeyDown, Code: hal.KeyDown})

	seq, err := s.Poll()
	require.NoError(t, err)
	for range seq {
		break
	}
	var rest []Event
	for ev := range seq {
		rest = append(rest, ev)
	}
	assert.Equal(t, []Event{{Kind: KeyPressed, Key: hal.KeyDown}}, rest)
}

func TestPollOutOfScope(t *testing.T) {
	s := NewSource(&fakePump{})
	_, err := s.Poll()
	assert.ErrorIs(t, err, ErrOutOfScope)

	s, p, grant := bound(t)
	p.q.Send(hal.RawEvent{Kind: hal.RawQuit})
	seq, err := s.Poll()
	require.NoError(t, err)
	grant.Revoke()

	for ev := range seq {
		t.Fatalf("event %v yielded after scope end", ev)
	}
	_, err = s.Collect()
	assert.ErrorIs(t, err, ErrOutOfScope)
	assert.ErrorIs(t, err, kernel.ErrRevoked)
}

func TestKindAndEventString(t *testing.T) {
	assert.Equal(t, "quit", Quit.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
	assert.Equal(t, "key-pressed escape", Event{Kind: KeyPressed, Key: hal.KeyEscape}.String())
	assert.Equal(t, `other 'x'`, Event{Kind: Other, Rune: 'x'}.String())
	assert.Equal(t, "other", Event{Kind: Other}.String())
}
