// Package renderer is the OpenGL 4.1 implementation of the gfx engine
// boundary. Scene state lives in memory; geometry is uploaded lazily and
// drawn with a single lit surface program.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/engine/gfx"
	"github.com/Faultbox/modelview/internal/engine/gfx/memgfx"
	"github.com/Faultbox/modelview/internal/engine/model"
	"github.com/Faultbox/modelview/internal/engine/renderer/frame"
	"github.com/Faultbox/modelview/internal/engine/shader"
	"github.com/Faultbox/modelview/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width     int
	Height    int
	PointSize float32
}

var _ gfx.Engine = (*Engine)(nil)

// Engine owns the GL programs and the renderer.
type Engine struct {
	renderer *Renderer

	surface       *shader.Program
	background    *shader.Program
	backgroundVAO uint32

	threads int
	closed  bool
	log     *zap.Logger
}

// New creates the engine.
// IMPORTANT: Must be called AFTER the OpenGL context is created, on the
// thread that owns it.
func New(cfg Config) (*Engine, error) {
	e := &Engine{log: logger.Named("gl")}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	e.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	var err error
	e.surface, err = shader.Build("surface", surfaceVertexShader, surfaceFragmentShader)
	if err != nil {
		return nil, err
	}
	e.background, err = shader.Build("background", backgroundVertexShader, backgroundFragmentShader)
	if err != nil {
		e.surface.Delete()
		return nil, err
	}
	gl.GenVertexArrays(1, &e.backgroundVAO)

	if cfg.PointSize <= 0 {
		cfg.PointSize = 3
	}
	e.renderer = &Renderer{
		Renderer:  memgfx.NewRenderer(),
		engine:    e,
		pointSize: cfg.PointSize,
	}
	e.Resize(cfg.Width, cfg.Height)

	return e, nil
}

// Renderer returns the GL renderer.
func (e *Engine) Renderer() gfx.Renderer {
	return e.renderer
}

// Resize sets the viewport to the drawable size in pixels.
func (e *Engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.renderer.width, e.renderer.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	e.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// NewActor validates mesh and wraps it. Nothing is uploaded until the
// actor is first drawn.
func (e *Engine) NewActor(mesh *model.Mesh) (gfx.Actor, error) {
	var a gfx.Actor
	err := gfx.Guard("renderer.NewActor", func() error {
		if e.closed {
			return gfx.ErrClosed
		}
		if err := frame.Validate(mesh); err != nil {
			return gfx.Errorf(gfx.KindInvalidInput, "renderer.NewActor", "%w", err)
		}
		a = &actor{Actor: memgfx.NewMeshActor(mesh)}
		return nil
	})
	return a, err
}

// NewLight creates a light. At most frame.MaxLights switched-on lights
// are shaded.
func (e *Engine) NewLight(kind gfx.LightKind) (gfx.Light, error) {
	if e.closed {
		return nil, gfx.ErrClosed
	}
	return memgfx.NewSceneLight(kind), nil
}

// SetThreadCount records the hint. All GL work happens on the context
// thread, so the value is informational.
func (e *Engine) SetThreadCount(n int) error {
	if n < 1 {
		return gfx.Errorf(gfx.KindInvalidInput, "renderer.SetThreadCount", "thread count %d", n)
	}
	e.threads = n
	return nil
}

// Close releases every GPU object. The renderer rejects calls afterwards.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.log.Info("closing renderer")

	err := gfx.Guard("renderer.Close", func() error {
		for _, a := range e.renderer.Actors() {
			if ga, ok := a.(*actor); ok {
				ga.gpu.release()
			}
		}
		e.surface.Delete()
		e.background.Delete()
		if e.backgroundVAO != 0 {
			gl.DeleteVertexArrays(1, &e.backgroundVAO)
		}
		return nil
	})
	e.renderer.Close()

	return multierr.Append(err, glError("close"))
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (e *Engine) ReadPixels() (pixels []byte, width, height int) {
	width, height = e.renderer.width, e.renderer.height
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return nil, 0, 0
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// glError drains the GL error queue.
func glError(op string) error {
	var err error
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		err = multierr.Append(err, gfx.Errorf(gfx.KindEngineUnavailable, op, "GL error 0x%x", code))
	}
	return err
}
