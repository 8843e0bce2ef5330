package cpu

// Key is a hex keypad key, 0x0-0xF.
type Key uint8

const (
	Key0 Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
)

const KeyCount = 16

// Keypad tracks which keys are held, plus the latch used by the key-wait
// instruction to see a press followed by a release.
type Keypad struct {
	keys    [KeyCount]bool
	latched *Key
}

func (k *Keypad) KeyDown(key Key) {
	k.keys[key&0xF] = true
}

func (k *Keypad) KeyUp(key Key) {
	k.keys[key&0xF] = false
}

// IsDown only looks at the low nibble, so Ex9E/ExA1 with Vx > 0xF test
// key Vx&0xF.
func (k *Keypad) IsDown(key Key) bool {
	return k.keys[key&0xF]
}

// AnyDown returns the lowest held key.
func (k *Keypad) AnyDown() (Key, bool) {
	for i, down := range k.keys {
		if down {
			return Key(i), true
		}
	}
	return 0, false
}

// PollRelease is called once per cycle while a key wait is pending. The first
// call without a latch records the lowest held key and reports nothing. Later
// calls report the latched key once it has been released, clearing the latch.
func (k *Keypad) PollRelease() (Key, bool) {
	if k.latched == nil {
		if key, ok := k.AnyDown(); ok {
			k.latched = &key
		}
		return 0, false
	}
	if k.IsDown(*k.latched) {
		return 0, false
	}
	key := *k.latched
	k.latched = nil
	return key, true
}

// Latched returns the key the pending wait is watching, if any.
func (k *Keypad) Latched() (Key, bool) {
	if k.latched == nil {
		return 0, false
	}
	return *k.latched, true
}

func (k *Keypad) setLatched(key Key, ok bool) {
	if !ok {
		k.latched = nil
		return
	}
	key &= 0xF
	k.latched = &key
}
