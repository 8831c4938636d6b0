package scene

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Texture holds CPU-side pixel data for a 2D texture.
// GLID is set by the OpenGL backend after upload.
type Texture struct {
	Name   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, top-to-bottom).
	Pixels []byte
	GLID   uint32
}

// LoadTexture reads a PNG, JPEG, BMP, TIFF or WebP file and converts it to RGBA8.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	tex, err := decodeTexture(path, f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	return tex, nil
}

func decodeImageBytes(name string, data []byte) (*Texture, error) {
	return decodeTexture(name, bytes.NewReader(data))
}

func decodeTexture(name string, r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	return &Texture{
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: rgba.Pix,
	}, nil
}

// FlipVertical mirrors the rows in place so row 0 becomes the bottom row,
// matching OpenGL's texture coordinate origin.
func (t *Texture) FlipVertical() {
	stride := t.Width * 4
	row := make([]byte, stride)
	for y := 0; y < t.Height/2; y++ {
		top := t.Pixels[y*stride : (y+1)*stride]
		bot := t.Pixels[(t.Height-1-y)*stride : (t.Height-y)*stride]
		copy(row, top)
		copy(top, bot)
		copy(bot, row)
	}
}

// NewSolidTexture creates a 1x1 texture with the given RGBA color values (0–255).
func NewSolidTexture(name string, r, g, b, a uint8) *Texture {
	return &Texture{
		Name:   name,
		Width:  1,
		Height: 1,
		Pixels: []byte{r, g, b, a},
	}
}

// Cubemap face order matches GL_TEXTURE_CUBE_MAP_POSITIVE_X + i.
const (
	FaceRight = iota
	FaceLeft
	FaceTop
	FaceBottom
	FaceFront
	FaceBack
)

// Cubemap holds the six faces of a skybox. A face that failed to load is nil.
type Cubemap struct {
	Faces [6]*Texture
	GLID  uint32
}

// LoadCubemap loads the six faces in right, left, top, bottom, front, back
// order. Faces that fail are left nil and reported together in the returned
// error; the cubemap is returned either way.
func LoadCubemap(paths [6]string) (*Cubemap, error) {
	cm := &Cubemap{}
	var errs []error
	for i, p := range paths {
		tex, err := LoadTexture(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("face %d: %w", i, err))
			continue
		}
		cm.Faces[i] = tex
	}
	return cm, errors.Join(errs...)
}

// Complete reports whether every face loaded.
func (c *Cubemap) Complete() bool {
	for _, f := range c.Faces {
		if f == nil {
			return false
		}
	}
	return true
}
