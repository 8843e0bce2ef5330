package grid

import "testing"

func TestGetGridCoords(t *testing.T) {
	tests := []struct {
		index int
		cols  int
		wantX int
		wantY int
	}{
		// 64 cols (standard CHIP-8 width)
		{0, 64, 0, 0},
		{1, 64, 1, 0},
		{63, 64, 63, 0},
		{64, 64, 0, 1},
		{65, 64, 1, 1},
		{127, 64, 63, 1},
		{2047, 64, 63, 31},

		// 128 cols (2x scaled)
		{0, 128, 0, 0},
		{127, 128, 127, 0},
		{128, 128, 0, 1},
		{8191, 128, 127, 63},
	}

	for _, tc := range tests {
		gotX, gotY := GetGridCoords(tc.index, tc.cols)
		if gotX != tc.wantX || gotY != tc.wantY {
			t.Errorf("GetGridCoords(%d, %d) = (%d, %d); want (%d, %d)", tc.index, tc.cols, gotX, gotY, tc.wantX, tc.wantY)
		}
		if got := GetIndex(tc.wantX, tc.wantY, tc.cols); got != tc.index {
			t.Errorf("GetIndex(%d, %d, %d) = %d; want %d", tc.wantX, tc.wantY, tc.cols, got, tc.index)
		}
	}
}
