package app

import (
	"fmt"
	"math"

	particlefield "github.com/gekko3d/particlefield"
	"github.com/gekko3d/particlefield/fieldrt/rt/core"
	"github.com/gekko3d/particlefield/fieldrt/rt/gpu"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Pass   *gpu.ParticlePass
	Field  *core.Field
	Camera *core.OrbitCamera

	// Written by the framebuffer size callback, read once per frame.
	Resolution core.ResolutionCell

	Clock    *particlefield.Clock
	Profiler *Profiler
	Logger   particlefield.Logger
	RunID  string

	DebugMode bool

	dragging     bool
	haveCursor   bool
	lastX, lastY float64

	FrameCount int
	FPS        float64
	FPSTime    float64
}

func NewApp(window *glfw.Window, field *core.Field, camera *core.OrbitCamera, logger particlefield.Logger, runID string) *App {
	return &App{
		Window: window,
		Field:  field,
		Camera: camera,
		Clock:    particlefield.NewClock(),
		Profiler: NewProfiler(),
		Logger:   particlefield.OrNop(logger),
		RunID:    runID,
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return fmt.Errorf("surface reports no usable formats")
	}

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	a.Pass, err = gpu.NewParticlePass(a.Device, a.Config.Format, "particle-field-"+shortID(a.RunID))
	if err != nil {
		return err
	}
	if err := a.Pass.UploadPoints(a.Queue, a.Field.Points); err != nil {
		return fmt.Errorf("upload points: %w", err)
	}
	a.Logger.Infof("uploaded %d points, surface %dx%d %v", len(a.Field.Points), width, height, a.Config.Format)

	// The window never reports its initial size through the callback.
	a.Resize(width, height)
	return nil
}

// Resize records the new framebuffer size and reconfigures the surface.
// Zero sizes are dropped, so the last good resolution stays in effect.
func (a *App) Resize(w, h int) {
	if !a.Resolution.Set(w, h) {
		a.Logger.Debugf("ignoring framebuffer size %dx%d", w, h)
		return
	}
	if a.Surface == nil || a.Config == nil {
		a.Logger.Debugf("resize %dx%d before surface init", w, h)
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
}

func (a *App) HandleMouseButton(button glfw.MouseButton, action glfw.Action) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		a.dragging = true
	case glfw.Release:
		a.dragging = false
	}
}

func (a *App) HandleCursor(x, y float64) {
	dx, dy := x-a.lastX, y-a.lastY
	drag := a.dragging && a.haveCursor
	a.lastX, a.lastY, a.haveCursor = x, y, true
	if !drag || a.Camera == nil {
		return
	}
	res, ok := a.Resolution.Snapshot()
	if !ok {
		return
	}
	a.Camera.Rotate(float32(dx), float32(dy), res.Y())
}

func (a *App) HandleScroll(yoff float64) {
	if a.Camera == nil {
		return
	}
	a.Camera.Zoom(float32(math.Pow(0.95, yoff)))
}

// Update advances the clock and camera and pushes this frame's uniforms.
func (a *App) Update() {
	a.Profiler.BeginScope("update")
	defer a.Profiler.EndScope("update")
	a.Clock.Tick()

	u := a.Field.Uniforms
	u.Time = a.Clock.ShaderTime(u.Speed)
	u.ApplyResolution(&a.Resolution)

	a.Camera.Update()

	if a.Pass == nil {
		return
	}
	block := u.Block(a.Field.Transforms(a.Camera))
	if err := a.Pass.UpdateUniforms(a.Queue, &block); err != nil {
		a.Logger.Errorf("uniform upload failed: %v", err)
	}
}

func (a *App) Render() {
	a.Profiler.BeginScope("render")
	defer a.Profiler.EndScope("render")

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Logger.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Logger.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Logger.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}
	defer encoder.Release()

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	a.Pass.Draw(rPass)
	if err := rPass.End(); err != nil {
		a.Logger.Errorf("render pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Logger.Errorf("encoder Finish failed: %v", err)
		return
	}
	defer cmd.Release()
	a.Queue.Submit(cmd)
	a.Surface.Present()

	a.countFrame(a.Clock.Dt.Seconds())
}

func (a *App) countFrame(dt float64) {
	if dt <= 0 {
		return
	}
	a.FrameCount++
	a.FPSTime += dt
	if a.FPSTime >= 1.0 {
		a.FPS = float64(a.FrameCount) / a.FPSTime
		a.FrameCount = 0
		a.FPSTime = 0
		if a.DebugMode {
			a.Profiler.SetCount("points", len(a.Field.Points))
			a.Logger.Debugf("fps %.1f t=%.3f res=%v %s", a.FPS, a.Field.Uniforms.Time, a.Field.Uniforms.Resolution, a.Profiler.Summary())
		}
	}
}

func (a *App) Release() {
	if a.Pass != nil {
		a.Pass.Release()
		a.Pass = nil
	}
	if a.Device != nil {
		a.Device.Release()
		a.Device = nil
	}
	if a.Adapter != nil {
		a.Adapter.Release()
		a.Adapter = nil
	}
	if a.Surface != nil {
		a.Surface.Release()
		a.Surface = nil
	}
	if a.Instance != nil {
		a.Instance.Release()
		a.Instance = nil
	}
}

// ProjectedCentre is where the field origin lands in pixels for the current
// camera and resolution, or false if the origin is behind the camera.
func (a *App) ProjectedCentre() (mgl32.Vec2, bool) {
	tr := a.Field.Transforms(a.Camera)
	clip := tr.Proj.Mul4(tr.View).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if clip.W() <= 0 {
		return mgl32.Vec2{}, false
	}
	res := a.Field.Uniforms.Resolution
	return mgl32.Vec2{
		(clip.X()/clip.W()*0.5 + 0.5) * res.X(),
		(0.5 - clip.Y()/clip.W()*0.5) * res.Y(),
	}, true
}

func GetSurfaceDescriptor(w *glfw.Window) *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
