// Package shapes provides small capability fixtures shared by tests and
// examples. It declares nothing itself; callers choose what to register.
package shapes

import (
	"encoding/json"
	"fmt"
)

// Drawable renders a textual picture of a shape.
type Drawable interface {
	Draw() string
}

// Serializable encodes a shape.
type Serializable interface {
	Serialize() ([]byte, error)
}

// Circle implements Drawable and Serializable.
type Circle struct {
	Radius float64 `json:"radius"`
}

func (c Circle) Draw() string {
	return fmt.Sprintf("circle(r=%g)", c.Radius)
}

func (c Circle) Serialize() ([]byte, error) {
	return json.Marshal(c)
}

// Square implements Drawable only.
type Square struct {
	Side float64 `json:"side"`
}

func (s Square) Draw() string {
	return fmt.Sprintf("square(s=%g)", s.Side)
}

// Canvas implements Drawable on its pointer receiver and keeps a draw count.
type Canvas struct {
	Draws int
}

func (c *Canvas) Draw() string {
	c.Draws++
	return fmt.Sprintf("canvas(#%d)", c.Draws)
}
