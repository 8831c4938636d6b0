// Package overlay builds the text control panel and rasterises it to an
// image the GPU backend can draw.
package overlay

import (
	"fmt"
	"strings"

	"hdrview/state"
)

// Panel stores the lines shown in the control panel.
type Panel struct {
	lines []string
	// Help lines are appended after the live values.
	Help []string
}

func (p *Panel) AddLine(format string, args ...interface{}) {
	p.lines = append(p.lines, fmt.Sprintf(format, args...))
}

func (p *Panel) Clear() {
	p.lines = p.lines[:0]
}

func (p *Panel) Lines() []string {
	return p.lines
}

func (p *Panel) Text() string {
	return strings.Join(p.lines, "\n")
}

// Build replaces the panel contents with the settings and camera info of st.
// frameTime is the last frame duration in seconds.
func (p *Panel) Build(st *state.ProgramState, frameTime float32) {
	p.Clear()

	p.AddLine("Settings")
	bg := st.BackgroundColor
	p.AddLine("  background   %.2f %.2f %.2f", bg.X(), bg.Y(), bg.Z())
	op := st.ObjectPosition
	p.AddLine("  object pos   %.2f %.2f %.2f", op.X(), op.Y(), op.Z())
	p.AddLine("  object scale %.2f", st.ObjectScale)
	l := st.PointLight
	p.AddLine("  light c/l/q  %.3f %.3f %.3f", l.Constant, l.Linear, l.Quadratic)
	p.AddLine("  hdr %s  exposure %.2f", onOff(st.HDR), st.Exposure)
	if frameTime > 0 {
		p.AddLine("  %.1f fps (%.2f ms)", 1/frameTime, frameTime*1000)
	}

	p.AddLine("Camera")
	c := st.Camera
	p.AddLine("  position %.2f %.2f %.2f", c.Position.X(), c.Position.Y(), c.Position.Z())
	p.AddLine("  yaw %.1f  pitch %.1f  fov %.1f", c.Yaw, c.Pitch, c.Zoom)
	p.AddLine("  front    %.2f %.2f %.2f", c.Front.X(), c.Front.Y(), c.Front.Z())
	p.AddLine("  mouse look %s", onOff(st.CameraMouseMovementEnabled))

	if len(p.Help) > 0 {
		p.AddLine("Keys")
		for _, h := range p.Help {
			p.AddLine("  %s", h)
		}
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
