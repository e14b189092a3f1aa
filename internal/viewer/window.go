// Package viewer draws a running joint rig in an SDL2 window.
package viewer

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/jointrig/internal/logger"
)

func init() {
	// SDL video calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title  string
	Width  int
	Height int
	VSync  bool
}

// Window wraps an SDL2 window and its 2D renderer.
type Window struct {
	config   Config
	window   *sdl.Window
	renderer *sdl.Renderer
}

// New creates a window with an accelerated renderer.
func New(cfg Config) (*Window, error) {
	w := &Window{config: cfg}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	var err error
	w.window, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		uint32(sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE),
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if cfg.VSync {
		flags |= uint32(sdl.RENDERER_PRESENTVSYNC)
	}
	w.renderer, err = sdl.CreateRenderer(w.window, -1, flags)
	if err != nil {
		_ = w.window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("vsync", cfg.VSync))

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.renderer != nil {
		_ = w.renderer.Destroy()
	}
	if w.window != nil {
		_ = w.window.Destroy()
	}

	sdl.Quit()
}

// Present shows the frame drawn since the last Present.
func (w *Window) Present() {
	w.renderer.Present()
}

// GetSize returns the current window size.
func (w *Window) GetSize() (int, int) {
	width, height := w.window.GetSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.window.SetTitle(title)
}
