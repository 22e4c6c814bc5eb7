package rowpack

import "fmt"

// Size is the computed pixel size of an item.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
