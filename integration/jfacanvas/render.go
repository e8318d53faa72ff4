// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package jfacanvas

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

// Rendering errors.
var (
	// ErrInvalidDrawContext is returned when the texture cannot be drawn by
	// the draw context.
	ErrInvalidDrawContext = errors.New("jfacanvas: dc must implement gpucontext.TextureDrawer")

	// ErrInvalidRenderer is returned when the draw context has no
	// gpucontext.TextureCreator.
	ErrInvalidRenderer = errors.New("jfacanvas: renderer must implement gpucontext.TextureCreator")
)

// RenderTo draws the latest field at (0, 0).
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	return c.RenderToPosition(dc, 0, 0)
}

// RenderToPosition draws the latest field with its top-left corner at (x, y).
func (c *Canvas) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	switch {
	case c.closed:
		return ErrCanvasClosed
	case dc == nil:
		return ErrInvalidDrawContext
	}

	tex, err := c.Flush()
	if err != nil {
		return err
	}
	if p, ok := tex.(*pendingTexture); ok {
		if tex, err = c.upload(dc, p); err != nil {
			return err
		}
	}

	drawable, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrInvalidDrawContext
	}
	return dc.DrawTexture(drawable, x, y)
}

// upload turns staged pixels into a GPU texture owned by the canvas and
// releases the texture it replaces.
func (c *Canvas) upload(dc gpucontext.TextureDrawer, p *pendingTexture) (any, error) {
	creator := dc.TextureCreator()
	if creator == nil {
		return nil, ErrInvalidRenderer
	}
	// Creation blocks until the GPU is done, so oldTexture is idle afterwards.
	tex, err := creator.NewTextureFromRGBA(p.width, p.height, p.data)
	if err != nil {
		return nil, fmt.Errorf("jfacanvas: upload %dx%d field: %w", p.width, p.height, err)
	}
	if pm, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
		pm.SetPremultiplied(true)
	}

	destroy(c.oldTexture)
	c.oldTexture = nil
	c.texture = tex
	return tex, nil
}
