// Package sensor provides the biometric capture devices: a simulated
// reader that returns a fixed template and a V4L2 device reader.
package sensor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
)

// SimulatedTemplate is what the simulated reader captures.
const SimulatedTemplate = "BASE64_TEMPLATE_SIMULADO_PARA_CADASTRO_1234567890"

const previewLen = 30

var ErrEmptyTemplate = errors.New("captured template is empty")

type Sensor interface {
	Init(ctx context.Context) error
	Capture(ctx context.Context) (string, error)
}

// Check returns ErrEmptyTemplate for an empty template.
func Check(template string) error {
	if template == "" {
		return ErrEmptyTemplate
	}
	return nil
}

// Preview shortens a template for display.
func Preview(template string) string {
	if len(template) <= previewLen {
		return template
	}
	return template[:previewLen] + "..."
}

// Stub stands in for a hardware reader. It always succeeds after its
// configured delays.
type Stub struct {
	InitDelay    time.Duration
	CaptureDelay time.Duration
	Out          io.Writer
}

func NewStub(initDelay, captureDelay time.Duration) *Stub {
	return &Stub{
		InitDelay:    initDelay,
		CaptureDelay: captureDelay,
		Out:          os.Stdout,
	}
}

func (s *Stub) Init(ctx context.Context) error {
	s.printf("Initializing biometric sensor...\n")
	if err := sleep(ctx, s.InitDelay); err != nil {
		return errors.Wrap(err, "Sensor initialization interrupted")
	}
	s.printf("Biometric sensor initialized.\n")
	slog.Debug("Simulated sensor ready", "delay", s.InitDelay)
	return nil
}

func (s *Stub) Capture(ctx context.Context) (string, error) {
	s.printf("Capturing biometric template...\n")
	if err := sleep(ctx, s.CaptureDelay); err != nil {
		return "", errors.Wrap(err, "Capture interrupted")
	}
	s.printf("Template captured: %s\n", Preview(SimulatedTemplate))
	return SimulatedTemplate, nil
}

func (s *Stub) printf(format string, args ...any) {
	if s.Out != nil {
		fmt.Fprintf(s.Out, format, args...)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
