//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"valewind/kernel"
)

var ebitenKeys = map[ebiten.Key]KeyCode{
	ebiten.KeyArrowUp:    KeyUp,
	ebiten.KeyArrowDown:  KeyDown,
	ebiten.KeyArrowLeft:  KeyLeft,
	ebiten.KeyArrowRight: KeyRight,
	ebiten.KeyEnter:      KeyEnter,
	ebiten.KeyEscape:     KeyEscape,
	ebiten.KeyBackspace:  KeyBackspace,
	ebiten.KeyTab:        KeyTab,
	ebiten.KeyDelete:     KeyDelete,
	ebiten.KeyHome:       KeyHome,
	ebiten.KeyEnd:        KeyEnd,
	ebiten.KeyF1:         KeyF1,
	ebiten.KeyF2:         KeyF2,
	ebiten.KeyF3:         KeyF3,
	ebiten.KeySpace:      KeySpace,
}

type hostKeyboard struct {
	q       kernel.Mailbox[RawEvent]
	keys    []ebiten.Key
	chars   []rune
	closing bool
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{}
}

func (k *hostKeyboard) Poll(dst []RawEvent) []RawEvent {
	for {
		ev, ok := k.q.TryRecv()
		if !ok {
			return dst
		}
		dst = append(dst, ev)
	}
}

func (k *hostKeyboard) Close() error { return nil }

// poll samples ebiten's input state. It runs on the game goroutine once per
// tick, before the tick's step.
func (k *hostKeyboard) poll() {
	if ebiten.IsWindowBeingClosed() && !k.closing {
		k.closing = true
		k.q.TrySend(RawEvent{Kind: RawQuit})
	}

	k.keys = inpututil.AppendJustPressedKeys(k.keys[:0])
	for _, key := range k.keys {
		k.q.TrySend(RawEvent{Kind: RawKeyDown, Code: ebitenKeys[key]})
	}
	k.keys = inpututil.AppendJustReleasedKeys(k.keys[:0])
	for _, key := range k.keys {
		k.q.TrySend(RawEvent{Kind: RawKeyUp, Code: ebitenKeys[key]})
	}

	// Text input has no press/release pair; it is forwarded as "other".
	k.chars = ebiten.AppendInputChars(k.chars[:0])
	for _, r := range k.chars {
		k.q.TrySend(RawEvent{Kind: RawOther, Rune: r})
	}
}
