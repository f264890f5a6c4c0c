package agenttest

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

const packagePrefix = "github.com/buildwithgo/apidef/agenttest."

// callerLocation returns file:line of the first frame outside this
// package, which is where the test created the agent.
func callerLocation() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, packagePrefix) ||
			strings.HasSuffix(frame.File, "_test.go") {
			return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		}
		if !more {
			return "unknown"
		}
	}
}
