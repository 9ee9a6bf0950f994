package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	particlefield "github.com/gekko3d/particlefield"
	"github.com/gekko3d/particlefield/fieldrt/rt/app"
	"github.com/gekko3d/particlefield/fieldrt/rt/preview"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML config file overlaying the defaults")
	debug := flag.Bool("debug", false, "Enable debug logging")
	snapshot := flag.String("snapshot", "", "Render one frame on the CPU to this PNG and exit")
	snapshotTime := flag.Float64("snapshot-time", 0, "Elapsed seconds for -snapshot")
	width := flag.Int("width", 0, "Window or snapshot width (0 keeps the config value)")
	height := flag.Int("height", 0, "Window or snapshot height (0 keeps the config value)")
	flag.Parse()

	if err := run(*configPath, *debug, *snapshot, *snapshotTime, *width, *height); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, debug bool, snapshot string, snapshotTime float64, width, height int) error {
	cfg, err := particlefield.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if debug {
		cfg.Debug = true
	}
	if width > 0 {
		cfg.Window.Width = width
	}
	if height > 0 {
		cfg.Window.Height = height
	}

	logger, runID := particlefield.NewRunLogger("particlefield", cfg.Debug)

	field, err := particlefield.BuildField(cfg)
	if err != nil {
		return err
	}
	camera := particlefield.NewCamera(cfg)
	logger.Infof("built %d points (detail %d, dedupe %v)", len(field.Points), cfg.Detail, cfg.Dedupe)

	if snapshot != "" {
		img := preview.Render(field, camera, preview.Options{
			Width:       cfg.Window.Width,
			Height:      cfg.Window.Height,
			Supersample: 2,
			Time:        snapshotTime,
			Caption:     fmt.Sprintf("t=%.2fs  %d points", snapshotTime, len(field.Points)),
		})
		if err := preview.WritePNG(snapshot, img); err != nil {
			return err
		}
		logger.Infof("wrote %s", snapshot)
		return nil
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	application := app.NewApp(window, field, camera, logger, runID)
	application.DebugMode = cfg.Debug
	defer application.Release()
	if err := application.Init(); err != nil {
		return err
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})
	defer window.SetFramebufferSizeCallback(nil)

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		application.HandleMouseButton(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		application.HandleCursor(xpos, ypos)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		application.HandleScroll(yoff)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		application.Update()
		application.Render()
	}
	logger.Infof("shutting down after %.1fs", application.Clock.Elapsed())
	return nil
}
