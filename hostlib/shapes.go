package hostlib

import (
	"fmt"
	"math"
)

type Shape struct {
	Name string
}

func NewShape(name string) *Shape {
	return &Shape{
		Name: name,
	}
}

func (s *Shape) Area() float64 {
	return 0
}

func (s *Shape) Describe() string {
	return "shape " + s.Name
}

type Square struct {
	Shape
	Side float64
}

func NewSquare(name string, side float64) *Square {
	return &Square{
		Shape: Shape{Name: name},
		Side:  side,
	}
}

func (s *Square) Area() float64 {
	return s.Side * s.Side
}

func (s *Square) Describe() string {
	return fmt.Sprintf("square %s %g", s.Name, s.Side)
}

type Circle struct {
	Shape
	Radius float64
}

func NewCircle(name string, radius float64) *Circle {
	return &Circle{
		Shape:  Shape{Name: name},
		Radius: radius,
	}
}

func (c *Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

// TotalArea sums the areas of shapes of any kind.
func TotalArea(shapes ...Area) float64 {
	var total float64
	for _, s := range shapes {
		total += s.Area()
	}
	return total
}

type Area interface {
	Area() float64
}
