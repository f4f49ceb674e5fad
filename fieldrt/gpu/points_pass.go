package gpu

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particlefield/fieldrt/core"
	"github.com/gekko3d/particlefield/fieldrt/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// PointsUniforms matches the WGSL Uniforms struct.
type PointsUniforms struct {
	MVP   mgl32.Mat4
	Color [4]float32
}

// ClipCorrection remaps OpenGL clip depth [-1,1] to WebGPU's [0,1].
var ClipCorrection = mgl32.Translate3D(0, 0, 0.5).Mul4(mgl32.Scale3D(1, 1, 0.5))

// PointsRenderPass draws one core.Points mesh as a point list with additive
// blending. WebGPU points rasterize at one pixel regardless of material size.
type PointsRenderPass struct {
	Pipeline      *wgpu.RenderPipeline
	BindGroup     *wgpu.BindGroup
	UniformBuffer *wgpu.Buffer
	VertexBuffer  *wgpu.Buffer
	VertexCount   uint32
	SampleCount   uint32
	Device        *wgpu.Device
}

func NewPointsRenderPass(device *wgpu.Device, format wgpu.TextureFormat, sampleCount uint32) (*PointsRenderPass, error) {
	if sampleCount == 0 {
		sampleCount = 1
	}
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "PointsShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.PointsWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	uniformSize := uint64(unsafe.Sizeof(PointsUniforms{}))
	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "PointsUniformBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					MinBindingSize:   uniformSize,
					HasDynamicOffset: false,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}

	additive := wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOne,
	}
	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "PointsPipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: 3 * 4,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{
							Format:         wgpu.VertexFormatFloat32x3,
							Offset:         0,
							ShaderLocation: 0,
						},
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
					Blend:     &wgpu.BlendState{Color: additive, Alpha: additive},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyPointList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	uniformBuffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "PointsUniformBuffer",
		Size:  uniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "PointsUniformBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  uniformBuffer,
				Size:    uniformSize,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return &PointsRenderPass{
		Pipeline:      pipeline,
		BindGroup:     bindGroup,
		UniformBuffer: uniformBuffer,
		SampleCount:   sampleCount,
		Device:        device,
	}, nil
}

// Upload copies the particle positions to the GPU. Geometry is immutable, so
// this runs once per mesh.
func (p *PointsRenderPass) Upload(queue *wgpu.Queue, geometry *core.ParticleBuffer) error {
	if p.VertexBuffer != nil {
		p.VertexBuffer.Release()
		p.VertexBuffer = nil
	}
	p.VertexCount = uint32(geometry.Count())
	if p.VertexCount == 0 {
		return nil
	}

	size := uint64(len(geometry.Positions) * 4)
	buf, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "PointsVertexBuffer",
		Size:  size,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	p.VertexBuffer = buf
	return queue.WriteBuffer(buf, 0, wgpu.ToBytes(geometry.Positions))
}

// Update writes the per-frame uniforms for pts seen through camera.
func (p *PointsRenderPass) Update(queue *wgpu.Queue, pts *core.Points, camera *core.PerspectiveCamera) error {
	u := []PointsUniforms{{
		MVP:   ClipCorrection.Mul4(camera.ViewProjection()).Mul4(pts.ObjectToWorld()),
		Color: pts.Material.RGBA(),
	}}
	return queue.WriteBuffer(p.UniformBuffer, 0, wgpu.ToBytes(u))
}

func (p *PointsRenderPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.VertexBuffer == nil || p.VertexCount == 0 {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, wgpu.WholeSize)
	pass.Draw(p.VertexCount, 1, 0, 0)
}

func (p *PointsRenderPass) Release() {
	if p.VertexBuffer != nil {
		p.VertexBuffer.Release()
	}
	p.UniformBuffer.Release()
	p.BindGroup.Release()
	p.Pipeline.Release()
}
