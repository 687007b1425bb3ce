package viewer

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// windowConfig holds window creation settings.
type windowConfig struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// window wraps the SDL2 window and its OpenGL context.
type window struct {
	config    windowConfig
	sdlWindow *sdl.Window
	glContext sdl.GLContext
}

// newWindow creates a window with an OpenGL 4.1 core context.
func newWindow(cfg windowConfig) (*window, error) {
	w := &window{
		config: cfg,
	}

	slog.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Set OpenGL attributes BEFORE creating window
	// We want OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	// Double buffering
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	// Depth buffer
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if cfg.VSync {
		if err := sdl.GLSetSwapInterval(1); err != nil {
			slog.Warn("failed to enable VSync", "error", err)
		}
	} else {
		sdl.GLSetSwapInterval(0)
	}

	slog.Info("window created",
		"title", cfg.Title,
		"width", cfg.Width,
		"height", cfg.Height,
		"fullscreen", cfg.Fullscreen,
		"vsync", cfg.VSync,
	)

	return w, nil
}

// Close destroys the window and shuts down SDL2.
func (w *window) Close() {
	slog.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// Size returns the current window size.
func (w *window) Size() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}
