package extract

import (
	"bytes"
	"context"
	"os/exec"
)

// Runner abstraksi eksekusi binary eksternal (pdftotext, pdftoppm, tesseract)
// supaya extractor bisa ditest dengan fake runner.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}
