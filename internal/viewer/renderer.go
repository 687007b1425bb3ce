package viewer

import (
	"fmt"
	gomath "math"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/handroom/internal/logger"
	"github.com/Faultbox/handroom/pkg/math"
	"github.com/go-gl/gl/v4.1-core/gl"
)

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uViewProj;

out vec4 vColor;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
	vColor = aColor;
}
`

const lineFragmentShader = `
#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
	FragColor = vColor;
}
`

const pointVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uViewProj;
uniform float uPointScale;

out vec4 vColor;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
	// Perspective point size: shrink with distance
	gl_PointSize = uPointScale / max(gl_Position.w, 0.05);
	vColor = aColor;
}
`

// renderer draws line and point batches with one dynamic buffer each.
// Must be created after the OpenGL context exists.
type renderer struct {
	width  int
	height int

	lineProgram  uint32
	pointProgram uint32

	lineViewProj  int32
	pointViewProj int32
	pointScale    int32

	lineVAO  uint32
	lineVBO  uint32
	pointVAO uint32
	pointVBO uint32
}

func newRenderer(width, height int) (*renderer, error) {
	r := &renderer{
		width:  width,
		height: height,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(0.08, 0.09, 0.12, 1.0)

	var err error
	r.lineProgram, err = compileProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("line program: %w", err)
	}
	r.pointProgram, err = compileProgram(pointVertexShader, lineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("point program: %w", err)
	}

	r.lineViewProj = uniform(r.lineProgram, "uViewProj")
	r.pointViewProj = uniform(r.pointProgram, "uViewProj")
	r.pointScale = uniform(r.pointProgram, "uPointScale")

	r.lineVAO, r.lineVBO = createDynamicBatch()
	r.pointVAO, r.pointVBO = createDynamicBatch()

	return r, nil
}

// createDynamicBatch builds a VAO/VBO pair for the shared vertex layout.
func createDynamicBatch() (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	stride := int32(vertexStride * 4)

	// Position attribute (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)

	// Color attribute (location = 1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao, vbo
}

// Close cleans up renderer resources.
func (r *renderer) Close() {
	logger.Info("closing renderer")
	if r.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lineVAO)
	}
	if r.lineVBO != 0 {
		gl.DeleteBuffers(1, &r.lineVBO)
	}
	if r.pointVAO != 0 {
		gl.DeleteVertexArrays(1, &r.pointVAO)
	}
	if r.pointVBO != 0 {
		gl.DeleteBuffers(1, &r.pointVBO)
	}
	if r.lineProgram != 0 {
		gl.DeleteProgram(r.lineProgram)
	}
	if r.pointProgram != 0 {
		gl.DeleteProgram(r.pointProgram)
	}
}

// Resize handles window resize.
func (r *renderer) Resize(width, height int) {
	r.width = width
	r.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Projection returns the perspective projection for the current size.
func (r *renderer) Projection() math.Mat4 {
	aspect := float32(r.width) / float32(r.height)
	return math.Perspective(55.0*gomath.Pi/180.0, aspect, 0.01, 100)
}

// DrawLines uploads and draws a line batch. Vertices come in pairs.
func (r *renderer) DrawLines(viewProj math.Mat4, verts []float32) {
	if len(verts) == 0 {
		return
	}
	gl.UseProgram(r.lineProgram)
	gl.UniformMatrix4fv(r.lineViewProj, 1, false, viewProj.Ptr())

	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.DYNAMIC_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(verts)/vertexStride))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// DrawPoints uploads and draws a point batch.
func (r *renderer) DrawPoints(viewProj math.Mat4, verts []float32, scale float32) {
	if len(verts) == 0 {
		return
	}
	gl.UseProgram(r.pointProgram)
	gl.UniformMatrix4fv(r.pointViewProj, 1, false, viewProj.Ptr())
	gl.Uniform1f(r.pointScale, scale)

	gl.BindVertexArray(r.pointVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.pointVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.DYNAMIC_DRAW)
	gl.DrawArrays(gl.POINTS, 0, int32(len(verts)/vertexStride))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}
