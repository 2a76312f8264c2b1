// Package shapes is an older copy of the shape capabilities. It shares type
// names with internal/shapes so ordering of same-named types can be tested.
package shapes

// Drawable renders a textual picture of a shape.
type Drawable interface {
	Draw() string
}
