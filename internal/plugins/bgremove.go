// DBIMGTOOL ⸻ internal/plugins/bgremove.go
// opaque background-removal plugin backed by an external binary

package plugins

import (
	"fmt"
	"os"
	"os/exec"
)

// BackgroundRemover is an opaque pixel transform. The core makes no
// promise about what it does beyond bytes-in, PNG-bytes-out; it is
// only ever invoked by the safe pipeline and never when a strip-only
// policy is in force.
type BackgroundRemover interface {
	Remove(data []byte) ([]byte, error)
}

// rembgRemover shells out to the rembg CLI
type rembgRemover struct {
	path string
}

// FindBackgroundRemover probes PATH for the rembg binary. Called
// once at startup; the result is injected into whoever needs it.
func FindBackgroundRemover() (BackgroundRemover, bool) {
	path, err := exec.LookPath("rembg")
	if err != nil {
		return nil, false
	}
	return &rembgRemover{path: path}, true
}

func (r *rembgRemover) Remove(data []byte) ([]byte, error) {
	tmpIn, err := os.CreateTemp("", "dbimgtool-bg-in-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpIn.Name())

	if _, err := tmpIn.Write(data); err != nil {
		tmpIn.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmpIn.Close()

	tmpOut := tmpIn.Name() + ".png"
	defer os.Remove(tmpOut)

	cmd := exec.Command(r.path, "i", tmpIn.Name(), tmpOut)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("background removal failed: %v: %s", err, out)
	}

	result, err := os.ReadFile(tmpOut)
	if err != nil {
		return nil, fmt.Errorf("background removal produced no output: %w", err)
	}

	return result, nil
}
