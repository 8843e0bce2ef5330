package cpu

// Display is the monochrome surface the CPU draws on. The host owns it and
// hands it to Cycle/Step; the CPU keeps no reference between calls.
type Display interface {
	Clear()
	// FlipPixel XOR-toggles (x, y) and reports the new state: true when the
	// pixel is now on, false when the flip turned it off.
	FlipPixel(x, y int) bool
	Width() int
	Height() int
	// Refresh pushes the surface to whatever visual output the host has.
	Refresh()
}
