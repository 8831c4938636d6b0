package opengl

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/*.vs shaders/*.fs
var embeddedShaders embed.FS

// Program names and the shader files they are linked from.
const (
	ProgramObject  = "object"
	ProgramPlate   = "plate"
	ProgramSkybox  = "skybox"
	ProgramHDR     = "hdr"
	ProgramOverlay = "overlay"
)

var programFiles = map[string][2]string{
	ProgramObject:  {"object.vs", "object.fs"},
	ProgramPlate:   {"object.vs", "plate.fs"},
	ProgramSkybox:  {"skybox.vs", "skybox.fs"},
	ProgramHDR:     {"hdr.vs", "hdr.fs"},
	ProgramOverlay: {"overlay.vs", "overlay.fs"},
}

// Shader is a linked GL program with cached uniform locations.
type Shader struct {
	ID   uint32
	Name string
	locs map[string]int32
}

func NewShader(name, vertSrc, fragSrc string) (*Shader, error) {
	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", name, err)
	}
	return &Shader{ID: prog, Name: name, locs: make(map[string]int32)}, nil
}

func (s *Shader) Use() {
	gl.UseProgram(s.ID)
}

func (s *Shader) Delete() {
	if s.ID != 0 {
		gl.DeleteProgram(s.ID)
		s.ID = 0
	}
}

func (s *Shader) location(name string) int32 {
	if loc, ok := s.locs[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.ID, gl.Str(name+"\x00"))
	s.locs[name] = loc
	return loc
}

func (s *Shader) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	gl.Uniform1i(s.location(name), i)
}

func (s *Shader) SetInt(name string, v int32) {
	gl.Uniform1i(s.location(name), v)
}

func (s *Shader) SetFloat(name string, v float32) {
	gl.Uniform1f(s.location(name), v)
}

func (s *Shader) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(s.location(name), v[0], v[1], v[2])
}

func (s *Shader) SetVec4(name string, v mgl32.Vec4) {
	gl.Uniform4f(s.location(name), v[0], v[1], v[2], v[3])
}

func (s *Shader) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(s.location(name), 1, false, &m[0])
}

// ShaderSource reads a shader file from dir, falling back to the embedded
// copy when dir is empty or does not contain the file.
func ShaderSource(dir, file string) (string, error) {
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	data, err := embeddedShaders.ReadFile("shaders/" + file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ShaderFiles lists every shader file name used by the programs.
func ShaderFiles() []string {
	seen := map[string]bool{}
	var out []string
	for _, name := range []string{ProgramObject, ProgramPlate, ProgramSkybox, ProgramHDR, ProgramOverlay} {
		for _, f := range programFiles[name] {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// LoadShaders compiles every program. On error nothing is leaked.
func LoadShaders(dir string) (map[string]*Shader, error) {
	out := make(map[string]*Shader, len(programFiles))
	for name, files := range programFiles {
		vs, err := ShaderSource(dir, files[0])
		if err != nil {
			deleteShaders(out)
			return nil, fmt.Errorf("%s shader: %w", name, err)
		}
		fsrc, err := ShaderSource(dir, files[1])
		if err != nil {
			deleteShaders(out)
			return nil, fmt.Errorf("%s shader: %w", name, err)
		}
		s, err := NewShader(name, vs, fsrc)
		if err != nil {
			deleteShaders(out)
			return nil, err
		}
		out[name] = s
	}
	return out, nil
}

func deleteShaders(m map[string]*Shader) {
	for _, s := range m {
		s.Delete()
	}
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
