//go:build !tinygo && !cgo

package hal

import "valewind/kernel"

type hostKeyboard struct {
	q kernel.Mailbox[RawEvent]
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

func (k *hostKeyboard) poll() {
	// No keyboard support without the window backend; events arrive via Inject.
}
