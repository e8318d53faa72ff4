package geometry

import (
	"strconv"

	"github.com/gogpu/jfa"
)

// Demo scene size.
const (
	DemoWidth  = 128
	DemoHeight = 128
)

// DemoScene returns a white rectangle, a triangle and a frame-numbered
// label on a 128x128 grid. The label reads "<frame+1>: hello world".
func DemoScene() *Scene {
	return NewScene(
		Rect{X: 10, Y: 40, W: 50, H: 70, Color: jfa.White},
		Triangle{
			A:     Vec{X: 2, Y: 0},
			B:     Vec{X: 40, Y: 0},
			C:     Vec{X: 40, Y: 38},
			Color: jfa.White,
		},
		Label{
			TextFunc: func(frame uint64) string {
				return strconv.FormatUint(frame+1, 10) + ": hello world"
			},
			X:     50,
			Y:     20,
			Size:  18,
			Color: jfa.White,
		},
	)
}
