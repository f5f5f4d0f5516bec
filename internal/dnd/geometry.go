package dnd

// Point is a pointer position in screen coordinates.
type Point struct {
	X, Y int
}

// Box is an axis-aligned bounding box.
type Box struct {
	X, Y, Width, Height int
}

// Contains reports whether the point lies inside the box.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X < b.X+b.Width &&
		p.Y >= b.Y && p.Y < b.Y+b.Height
}

// Intersects reports whether the two boxes overlap.
func (a Box) Intersects(b Box) bool {
	return a.X < b.X+b.Width && a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height && a.Y+a.Height > b.Y
}

// OverlapArea returns the area of the intersection of the two boxes,
// or 0 when they do not overlap.
func (a Box) OverlapArea(b Box) int {
	w := min(a.X+a.Width, b.X+b.Width) - max(a.X, b.X)
	h := min(a.Y+a.Height, b.Y+b.Height) - max(a.Y, b.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}
