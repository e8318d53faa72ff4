// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package jfacanvas

import (
	"errors"
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/jfa"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("jfacanvas: canvas is closed")

	// ErrInvalidDimensions is returned when width, height or scale is invalid.
	ErrInvalidDimensions = errors.New("jfacanvas: invalid dimensions")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("jfacanvas: nil DeviceProvider")
)

// textureDestroyer matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Canvas holds the latest presented field and its GPU texture.
type Canvas struct {
	provider    gpucontext.DeviceProvider
	staging     *image.RGBA
	texture     any // lazily created, *pendingTexture until the first RenderTo
	oldTexture  any // previous texture awaiting deferred destruction
	dirty       bool
	sizeChanged bool
	width       int
	height      int
	scale       int
	frames      uint64
	closed      bool
}

// New creates a canvas for fields of width x height cells, each shown as a
// scale x scale block of texels.
//
// The provider's device is shared with the registered field accelerator
// when it supports device sharing.
func New(provider gpucontext.DeviceProvider, width, height, scale int) (*Canvas, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if width <= 0 || height <= 0 || scale <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d, scale=%d", ErrInvalidDimensions, width, height, scale)
	}

	// Non-fatal: the accelerator keeps its own device.
	if err := jfa.SetAcceleratorDeviceProvider(provider); err != nil {
		jfa.Logger().Debug("jfacanvas: device not shared", "err", err)
	}

	return &Canvas{
		provider: provider,
		staging:  image.NewRGBA(image.Rect(0, 0, width*scale, height*scale)),
		width:    width,
		height:   height,
		scale:    scale,
		dirty:    true,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(provider gpucontext.DeviceProvider, width, height, scale int) *Canvas {
	c, err := New(provider, width, height, scale)
	if err != nil {
		panic(err)
	}
	return c
}

// Size returns the field dimensions.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Scale returns the magnification factor.
func (c *Canvas) Scale() int {
	return c.scale
}

// TextureSize returns the texture dimensions in texels.
func (c *Canvas) TextureSize() (width, height int) {
	return c.width * c.scale, c.height * c.scale
}

// Frames returns the number of fields presented.
func (c *Canvas) Frames() uint64 {
	return c.frames
}

// IsDirty reports whether a presented field is waiting for upload.
func (c *Canvas) IsDirty() bool {
	return c.dirty
}

// Pixels returns the staging image in premultiplied RGBA. It is overwritten
// by the next Present.
func (c *Canvas) Pixels() *image.RGBA {
	return c.staging
}

// Present implements jfa.Presenter. The field is magnified into the staging
// image; it is uploaded by the next Flush or RenderTo.
func (c *Canvas) Present(out *jfa.Pixmap) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if out == nil {
		return errors.New("jfacanvas: nil field")
	}
	if out.Width() != c.width || out.Height() != c.height {
		if err := c.Resize(out.Width(), out.Height()); err != nil {
			return err
		}
	}

	xdraw.NearestNeighbor.Scale(c.staging, c.staging.Bounds(), out.ToImage(), out.Bounds(), xdraw.Src, nil)
	c.dirty = true
	c.frames++
	return nil
}

// Resize changes the field dimensions and clears the staging image.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if c.width == width && c.height == height {
		return nil
	}

	c.staging = image.NewRGBA(image.Rect(0, 0, width*c.scale, height*c.scale))
	c.width = width
	c.height = height
	c.sizeChanged = true
	c.dirty = true
	return nil
}

// Flush uploads the staging image to the GPU texture if dirty and returns
// the texture. The texture is created lazily: until the first RenderTo it
// is a placeholder holding the pixel data.
func (c *Canvas) Flush() (any, error) {
	if c.closed {
		return nil, ErrCanvasClosed
	}

	// The old texture may still be referenced by in-flight command buffers;
	// it is destroyed in RenderToEx once the GPU is idle.
	if c.sizeChanged {
		if c.texture != nil {
			destroy(c.oldTexture)
			c.oldTexture = c.texture
			c.texture = nil
		}
		c.sizeChanged = false
	}

	if !c.dirty && c.texture != nil {
		return c.texture, nil
	}

	tw, th := c.TextureSize()
	data := c.staging.Pix

	if c.texture == nil {
		c.texture = &pendingTexture{width: tw, height: th, data: data}
		c.dirty = false
		return c.texture, nil
	}

	switch tex := c.texture.(type) {
	case *pendingTexture:
		tex.data = data
	case gpucontext.TextureUpdater:
		if err := tex.UpdateData(data); err != nil {
			return nil, fmt.Errorf("jfacanvas: texture update failed: %w", err)
		}
	}

	c.dirty = false
	return c.texture, nil
}

// Texture returns the current texture without flushing, or nil.
func (c *Canvas) Texture() any {
	return c.texture
}

// Provider returns the DeviceProvider, or nil once closed.
func (c *Canvas) Provider() gpucontext.DeviceProvider {
	if c.closed {
		return nil
	}
	return c.provider
}

// Close releases the textures. Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	destroy(c.oldTexture)
	c.oldTexture = nil
	destroy(c.texture)
	c.texture = nil

	c.staging = nil
	c.provider = nil
	return nil
}

func destroy(tex any) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}

// pendingTexture holds pixel data until RenderTo has a texture creator.
type pendingTexture struct {
	width  int
	height int
	data   []byte
}
