package grid

import "testing"

func TestGetGridCoords(t *testing.T) {
	tests := []struct {
		index int
		cols  int
		wantX int
		wantY int
	}{
		// 16 cols (viewer default)
		{0, 16, 0, 0},
		{1, 16, 1, 0},
		{15, 16, 15, 0},
		{16, 16, 0, 1},
		{17, 16, 1, 1},
		{127, 16, 15, 7},

		// single column
		{0, 1, 0, 0},
		{5, 1, 0, 5},
	}

	for _, tc := range tests {
		gotX, gotY := GetGridCoords(tc.index, tc.cols)
		if gotX != tc.wantX || gotY != tc.wantY {
			t.Errorf("GetGridCoords(%d, %d) = (%d, %d); want (%d, %d)", tc.index, tc.cols, gotX, gotY, tc.wantX, tc.wantY)
		}
	}
}

func TestPageStart(t *testing.T) {
	tests := []struct {
		pointer   int
		pageCells int
		want      int
	}{
		{0, 128, 0},
		{127, 128, 0},
		{128, 128, 128},
		{29999, 128, 29952},
		{42, 0, 42},
	}

	for _, tc := range tests {
		if got := PageStart(tc.pointer, tc.pageCells); got != tc.want {
			t.Errorf("PageStart(%d, %d) = %d; want %d", tc.pointer, tc.pageCells, got, tc.want)
		}
	}
}
