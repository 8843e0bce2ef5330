package cpu

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestHibernateRoundTrip(t *testing.T) {
	c1, s1 := newTestCPU(t,
		0x2206, // CALL 206
		0x0000,
		0x0000,
		0x6A42, // 206: LD VA, 42
		0xA050,
		0xD015,
		0xF00A, // wait for key
	)
	c1.Delay.Set(40)
	c1.Sound.Set(20)
	runCycles(t, c1, s1, 6)
	c1.KeyDown(Key9)
	runCycles(t, c1, s1, 1)

	data, err := c1.HibernateToBytes(s1)
	if err != nil {
		t.Fatalf("HibernateToBytes: %v", err)
	}

	c2 := New()
	s2 := NewSurface(DisplayWidth, DisplayHeight)
	if err := c2.RestoreFromBytes(data, s2); err != nil {
		t.Fatalf("RestoreFromBytes: %v", err)
	}

	if !reflect.DeepEqual(c2.State(), c1.State()) {
		t.Errorf("state mismatch:\n got %+v\nwant %+v", c2.State(), c1.State())
	}
	if !reflect.DeepEqual(s2.Pixels(), s1.Pixels()) {
		t.Error("display mismatch")
	}
	if key, ok := c2.Keypad.Latched(); !ok || key != Key9 {
		t.Errorf("latch: expected Key9, got %v/%v", key, ok)
	}

	// both machines finish the key wait the same way
	c1.KeyUp(Key9)
	c2.KeyUp(Key9)
	runCycles(t, c1, s1, 1)
	runCycles(t, c2, s2, 1)
	if c1.V[0] != 9 || c2.V[0] != 9 {
		t.Errorf("V0 after release: %d / %d", c1.V[0], c2.V[0])
	}
}

func TestHibernateWithoutSurface(t *testing.T) {
	c1, _ := newTestCPU(t, 0x6123)
	c1.V[5] = 0x55

	data, err := c1.HibernateToBytes(nil)
	if err != nil {
		t.Fatal(err)
	}

	c2 := New()
	if err := c2.RestoreFromBytes(data, nil); err != nil {
		t.Fatal(err)
	}
	if c2.V[5] != 0x55 {
		t.Errorf("V5: expected 0x55, got 0x%02X", c2.V[5])
	}
	if err := c2.RestoreFromBytes(data, NewSurface(DisplayWidth, DisplayHeight)); err == nil {
		t.Error("expected error restoring a display that was never saved")
	}
}

func TestHibernateRejectsMismatchedSurface(t *testing.T) {
	c1, s1 := newTestCPU(t)
	c1.V[1] = 1
	data, err := c1.HibernateToBytes(s1)
	if err != nil {
		t.Fatal(err)
	}

	c2 := New()
	c2.V[1] = 0xEE
	if err := c2.RestoreFromBytes(data, NewSurface(32, 16)); err == nil {
		t.Fatal("expected size mismatch error")
	}
	if c2.V[1] != 0xEE {
		t.Error("CPU modified by a failed restore")
	}
}

func TestHibernateGarbage(t *testing.T) {
	c := New()
	if err := c.RestoreFromBytes([]byte("not a zip"), nil); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestHibernateClearsFault(t *testing.T) {
	good, s := newTestCPU(t, 0x1200)
	data, err := good.HibernateToBytes(s)
	if err != nil {
		t.Fatal(err)
	}

	bad, s2 := newTestCPU(t, 0x00EE)
	if err := bad.Cycle(s2); err == nil {
		t.Fatal("expected fault")
	}
	if err := bad.RestoreFromBytes(data, s2); err != nil {
		t.Fatal(err)
	}
	if bad.Halted() {
		t.Error("restore should clear the fault")
	}
	runCycles(t, bad, s2, 3)
}

func TestHibernateFile(t *testing.T) {
	c1, s1 := newTestCPU(t, 0x6177)
	runCycles(t, c1, s1, 1)

	path := filepath.Join(t.TempDir(), "game.state")
	if err := c1.HibernateToFile(path, s1); err != nil {
		t.Fatalf("HibernateToFile: %v", err)
	}

	c2 := New()
	if err := c2.RestoreFromFile(path, NewSurface(DisplayWidth, DisplayHeight)); err != nil {
		t.Fatalf("RestoreFromFile: %v", err)
	}
	if c2.V[1] != 0x77 || c2.PC.Get() != 0x202 {
		t.Errorf("expected V1=0x77 PC=0x202, got 0x%02X 0x%03X", c2.V[1], c2.PC.Get())
	}

	if err := c2.RestoreFromFile(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}
