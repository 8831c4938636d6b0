package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"hdrview/logger"
)

var glErrorNames = map[uint32]string{
	gl.INVALID_ENUM:                  "INVALID_ENUM",
	gl.INVALID_VALUE:                 "INVALID_VALUE",
	gl.INVALID_OPERATION:             "INVALID_OPERATION",
	gl.STACK_OVERFLOW:                "STACK_OVERFLOW",
	gl.STACK_UNDERFLOW:               "STACK_UNDERFLOW",
	gl.OUT_OF_MEMORY:                 "OUT_OF_MEMORY",
	gl.INVALID_FRAMEBUFFER_OPERATION: "INVALID_FRAMEBUFFER_OPERATION",
}

// ErrorName returns the symbolic name of a glGetError code.
func ErrorName(code uint32) string {
	if name, ok := glErrorNames[code]; ok {
		return name
	}
	return fmt.Sprintf("0x%X", code)
}

// maxDrain bounds the loop when no context is current, where some drivers
// keep returning an error.
const maxDrain = 16

// CheckError drains the GL error queue, logging each entry against op.
// It reports whether any error was pending.
func CheckError(op string) bool {
	found := false
	for i := 0; i < maxDrain; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		found = true
		logger.Log.Warn("gl error", zap.String("op", op), zap.String("code", ErrorName(code)))
	}
	return found
}
