//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks

package server

import (
	"context"
	"io"

	"github.com/agbru/mandelcalc/internal/render"
	"github.com/agbru/mandelcalc/internal/viewport"
)

// Renderer produces frames for the /render.png endpoint.
type Renderer interface {
	Render(ctx context.Context, vp viewport.Viewport, opts render.Options) (*render.Frame, error)
}

// FrameRenderer renders with render.Render and no progress display.
type FrameRenderer struct{}

// Render implements Renderer.
func (FrameRenderer) Render(ctx context.Context, vp viewport.Viewport, opts render.Options) (*render.Frame, error) {
	return render.Render(ctx, vp, opts, render.NullProgressReporter{}, io.Discard)
}
