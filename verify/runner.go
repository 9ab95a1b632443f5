package verify

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

var ErrEmptyResponse = errors.New("verifier returned no output")

// Runner invokes the external verifier with the template and finger
// appended to Command. No shell is involved.
type Runner struct {
	Command []string
}

func NewRunner(command []string) *Runner {
	return &Runner{Command: append([]string(nil), command...)}
}

// Query runs the verifier and returns its standard output with every
// whitespace character removed. The exit status is logged, not enforced.
func (r *Runner) Query(ctx context.Context, template, finger string) (string, error) {
	if len(r.Command) == 0 {
		return "", errors.New("no verifier command configured")
	}

	args := append(append([]string(nil), r.Command[1:]...), template, finger)
	cmd := exec.CommandContext(ctx, r.Command[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Running verifier", "command", r.Command[0], "finger", finger)

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", errors.Wrapf(err, "failed to run verifier %s", r.Command[0])
		}
		slog.Warn("Verifier exited with error", "code", exitErr.ExitCode(), "stderr", strings.TrimSpace(stderr.String()))
	}

	out := StripSpace(stdout.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

// StripSpace drops every whitespace rune from s.
func StripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
