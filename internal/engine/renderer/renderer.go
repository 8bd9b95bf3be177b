// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/drape/internal/engine/debug"
	"github.com/Faultbox/drape/internal/engine/lighting"
	"github.com/Faultbox/drape/internal/engine/shader"
	"github.com/Faultbox/drape/internal/logger"
	"github.com/Faultbox/drape/pkg/cloth"
	"github.com/Faultbox/drape/pkg/math"
	"github.com/Faultbox/drape/pkg/mesh"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer draws cloth meshes and debug lines.
type Renderer struct {
	config Config
	log    *zap.Logger

	meshProgram *shader.Program
	lineProgram *shader.Program

	meshes map[*mesh.Mesh]*gpuMesh

	lineVAO uint32
	lineVBO uint32

	view, projection math.Mat4
	sun              lighting.Sun
}

// gpuMesh holds the buffers of one uploaded mesh.
type gpuMesh struct {
	vao         uint32
	positionVBO uint32
	normalVBO   uint32
	ebo         uint32
	indexCount  int32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:     cfg,
		log:        logger.Named("renderer"),
		meshes:     make(map[*mesh.Mesh]*gpuMesh),
		view:       math.Identity(),
		projection: math.Identity(),
		sun:        lighting.DefaultSun(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	if r.meshProgram, err = shader.New(meshVertexShader, meshFragmentShader); err != nil {
		return nil, fmt.Errorf("failed to create mesh shader: %w", err)
	}
	if r.lineProgram, err = shader.New(lineVertexShader, lineFragmentShader); err != nil {
		r.meshProgram.Delete()
		return nil, fmt.Errorf("failed to create line shader: %w", err)
	}
	r.log.Debug("shader programs created",
		zap.Uint32("mesh", r.meshProgram.ID),
		zap.Uint32("line", r.lineProgram.ID),
	)

	gl.GenVertexArrays(1, &r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for m := range r.meshes {
		r.Forget(m)
	}
	if r.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lineVAO)
	}
	if r.lineVBO != 0 {
		gl.DeleteBuffers(1, &r.lineVBO)
	}
	r.meshProgram.Delete()
	r.lineProgram.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// SetCamera sets the view and projection used by the next draws.
func (r *Renderer) SetCamera(view, projection math.Mat4) {
	r.view = view
	r.projection = projection
}

// SetSun sets the directional light.
func (r *Renderer) SetSun(sun lighting.Sun) {
	r.sun = sun
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// DrawMesh uploads the current positions, normals and indices of m and draws
// it with the model matrix. Both faces are lit.
func (r *Renderer) DrawMesh(m *mesh.Mesh, model math.Mat4, color math.Vec3) {
	g := r.upload(m)
	if g == nil || g.indexCount == 0 {
		return
	}

	r.meshProgram.Use()
	r.meshProgram.SetMat4("uModel", model)
	r.meshProgram.SetMat4("uView", r.view)
	r.meshProgram.SetMat4("uProjection", r.projection)
	r.meshProgram.SetVec3("uColor", color)
	r.meshProgram.SetVec3("uSunDir", r.sun.Direction())
	r.meshProgram.SetVec3("uSunColor", r.sun.Color)
	r.meshProgram.SetVec3("uAmbient", r.sun.Ambient)

	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawBox draws the wireframe of a world space box.
func (r *Renderer) DrawBox(box cloth.AABB, color math.Vec3) {
	vertices := debug.BoxLines(box, 0)

	r.lineProgram.Use()
	r.lineProgram.SetMat4("uViewProjection", r.projection.Mul(r.view))
	r.lineProgram.SetVec3("uColor", color)

	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, debug.BoxLineVertexCount)
	gl.BindVertexArray(0)
}

// ReadPixels returns the RGBA content of the back buffer.
func (r *Renderer) ReadPixels() []byte {
	pixels := make([]byte, r.config.Width*r.config.Height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.ReadPixels(0, 0, int32(r.config.Width), int32(r.config.Height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels
}

// Forget frees the buffers of m.
func (r *Renderer) Forget(m *mesh.Mesh) {
	g, ok := r.meshes[m]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &g.positionVBO)
	gl.DeleteBuffers(1, &g.normalVBO)
	gl.DeleteBuffers(1, &g.ebo)
	gl.DeleteVertexArrays(1, &g.vao)
	delete(r.meshes, m)
}

// upload streams the mesh attributes to its buffers, creating them on first
// use. Meshes without normals are drawn with a constant +Z normal.
func (r *Renderer) upload(m *mesh.Mesh) *gpuMesh {
	positions, ok := m.Positions()
	if !ok || len(positions) == 0 || m.Indices() == nil {
		return nil
	}

	g, ok := r.meshes[m]
	if !ok {
		g = &gpuMesh{}
		gl.GenVertexArrays(1, &g.vao)
		gl.GenBuffers(1, &g.positionVBO)
		gl.GenBuffers(1, &g.normalVBO)
		gl.GenBuffers(1, &g.ebo)
		r.meshes[m] = g
		r.log.Debug("mesh uploaded",
			zap.Int("vertices", len(positions)),
			zap.Int("indices", m.Indices().Len()),
		)
	}

	gl.BindVertexArray(g.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, g.positionVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*12, unsafe.Pointer(&positions[0]), gl.DYNAMIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	attr, _ := m.Attribute(mesh.AttributeNormal)
	if normals, ok := attr.(mesh.Float32x3); ok && len(normals) == len(positions) {
		gl.BindBuffer(gl.ARRAY_BUFFER, g.normalVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(normals)*12, unsafe.Pointer(&normals[0]), gl.DYNAMIC_DRAW)
		gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 3*4, nil)
		gl.EnableVertexAttribArray(1)
	} else {
		gl.DisableVertexAttribArray(1)
		gl.VertexAttrib3f(1, 0, 0, 1)
	}

	indices := m.Indices().Uint32()
	g.indexCount = int32(len(indices))
	if len(indices) > 0 {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.DYNAMIC_DRAW)
	}

	gl.BindVertexArray(0)
	return g
}
