// Package keypad describes the 12-key illuminated pad: grid geometry,
// key events, and the color tables shared by the games.
package keypad

const (
	// NumKeys is the number of keys on the pad.
	NumKeys = 12
	// Cols and Rows describe the physical key layout:
	//  0  1  2
	//  3  4  5
	//  6  7  8
	//  9 10 11
	Cols = 3
	Rows = 4
)

// Event is a single key press or release, delivered in FIFO order.
type Event struct {
	Key     int
	Pressed bool
}

// Valid reports whether key is a real key index.
func Valid(key int) bool {
	return key >= 0 && key < NumKeys
}

// neighbors[k] holds the orthogonal neighbors of key k, excluding k itself.
// toggleGroups[k] additionally includes k (the lights-out toggle set).
var (
	neighbors    [NumKeys][]int
	toggleGroups [NumKeys][]int
)

func init() {
	for k := 0; k < NumKeys; k++ {
		row, col := k/Cols, k%Cols
		var n []int
		if row > 0 {
			n = append(n, k-Cols)
		}
		if col > 0 {
			n = append(n, k-1)
		}
		if col < Cols-1 {
			n = append(n, k+1)
		}
		if row < Rows-1 {
			n = append(n, k+Cols)
		}
		neighbors[k] = n
		toggleGroups[k] = append([]int{k}, n...)
	}
}

// Neighbors returns the orthogonal neighbors of key on the grid.
// The returned slice is shared and must not be modified.
func Neighbors(key int) []int {
	return neighbors[key]
}

// ToggleGroup returns key plus its orthogonal neighbors.
// The returned slice is shared and must not be modified.
func ToggleGroup(key int) []int {
	return toggleGroups[key]
}
