// Package grid lays a linear run of tape cells out as rows and columns.
package grid

// GetGridCoords returns the column and row of index in a grid cols wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// PageStart returns the first tape index of the page of pageCells cells
// that contains pointer. Pages tile the tape from index 0; the last page
// may run past the end of a tape of size cells.
func PageStart(pointer, pageCells int) int {
	if pageCells < 1 {
		return pointer
	}
	return pointer - pointer%pageCells
}
