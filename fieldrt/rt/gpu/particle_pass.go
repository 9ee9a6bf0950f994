package gpu

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particlefield/fieldrt/rt/core"
	"github.com/gekko3d/particlefield/fieldrt/rt/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// ParticlePass draws every field point as an additively blended,
// camera-facing quad. No depth attachment is used.
type ParticlePass struct {
	Pipeline       *wgpu.RenderPipeline
	BindGroup      *wgpu.BindGroup
	UniformBuffer  *wgpu.Buffer
	CornerBuffer   *wgpu.Buffer
	InstanceBuffer *wgpu.Buffer
	InstanceCount  uint32
	InstanceCap    uint32
	Device         *wgpu.Device

	label string
}

// AdditiveBlend is src*srcAlpha + dst for color, src + dst for alpha.
var AdditiveBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOne,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOne,
	},
}

func NewParticlePass(device *wgpu.Device, format wgpu.TextureFormat, label string) (*ParticlePass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + "-shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ParticleFieldWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("particle shader: %w", err)
	}
	defer shaderModule.Release()

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label + "-uniforms-bgl",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: core.UniformBlockSize,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("particle bind group layout: %w", err)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + "-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, fmt.Errorf("particle pipeline layout: %w", err)
	}

	blend := AdditiveBlend
	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + "-pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(mgl32.Vec2{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					},
				},
				{
					ArrayStride: uint64(unsafe.Sizeof(core.PointInstance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 2},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend:     &blend,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("particle pipeline: %w", err)
	}

	p := &ParticlePass{
		Pipeline: pipeline,
		Device:   device,
		label:    label,
	}

	p.UniformBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + "-uniforms",
		Size:  core.UniformBlockSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("particle uniform buffer: %w", err)
	}

	corners := core.QuadCorners
	p.CornerBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + "-corners",
		Contents: wgpu.ToBytes(corners[:]),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, fmt.Errorf("particle corner buffer: %w", err)
	}

	p.BindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + "-uniforms-bg",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  p.UniformBuffer,
				Size:    core.UniformBlockSize,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("particle bind group: %w", err)
	}

	return p, nil
}

// UploadPoints replaces the instance data, growing the buffer if needed.
func (p *ParticlePass) UploadPoints(queue *wgpu.Queue, points []core.PointInstance) error {
	p.InstanceCount = uint32(len(points))
	if len(points) == 0 {
		return nil
	}

	stride := uint64(unsafe.Sizeof(core.PointInstance{}))
	if p.InstanceBuffer == nil || p.InstanceCap < p.InstanceCount {
		if p.InstanceBuffer != nil {
			p.InstanceBuffer.Release()
		}
		buf, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: p.label + "-instances",
			Size:  uint64(len(points)) * stride,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			p.InstanceBuffer, p.InstanceCap, p.InstanceCount = nil, 0, 0
			return fmt.Errorf("particle instance buffer: %w", err)
		}
		p.InstanceBuffer = buf
		p.InstanceCap = p.InstanceCount
	}

	return queue.WriteBuffer(p.InstanceBuffer, 0, wgpu.ToBytes(points))
}

func (p *ParticlePass) UpdateUniforms(queue *wgpu.Queue, block *core.UniformBlock) error {
	return queue.WriteBuffer(p.UniformBuffer, 0, block.Bytes())
}

func (p *ParticlePass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.InstanceBuffer == nil || p.InstanceCount == 0 {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.CornerBuffer, 0, wgpu.WholeSize)
	pass.SetVertexBuffer(1, p.InstanceBuffer, 0, wgpu.WholeSize)
	pass.Draw(uint32(len(core.QuadCorners)), p.InstanceCount, 0, 0)
}

func (p *ParticlePass) Release() {
	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	if p.InstanceBuffer != nil {
		p.InstanceBuffer.Release()
	}
	if p.CornerBuffer != nil {
		p.CornerBuffer.Release()
	}
	if p.UniformBuffer != nil {
		p.UniformBuffer.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
}
