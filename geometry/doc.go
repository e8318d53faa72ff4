// Package geometry rasterizes simple shape and text scenes into seed masks.
//
// A Scene implements jfa.GeometrySource: every frame its shapes are filled
// with anti-aliased coverage into the mask that the jump flood pipeline
// classifies into seeds.
//
//	scene := geometry.DemoScene()
//	driver, err := jfa.NewDriver(pipeline, scene, presenter)
//
// Shapes are filled with golang.org/x/image/vector. Labels are shaped with
// go-text/typesetting (HarfBuzz) after bidi reordering, and glyph outlines
// are loaded with golang.org/x/image/font/sfnt.
package geometry
