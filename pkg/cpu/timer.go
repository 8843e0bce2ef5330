package cpu

// Timer is an 8-bit countdown that stops at zero.
type Timer struct {
	value uint8
}

func (t *Timer) Tick() {
	if t.value > 0 {
		t.value--
	}
}

func (t *Timer) Set(v uint8) {
	t.value = v
}

func (t *Timer) Get() uint8 {
	return t.value
}
