// Package biometric drives the two device flows: enrollment (cadastro),
// which posts a captured template to the enrollment service, and
// verification (consulta), which hands a template to an external matcher.
package biometric

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/acesso-etec/biometric/enroll"
	"github.com/acesso-etec/biometric/protocol"
	"github.com/acesso-etec/biometric/sensor"
)

type Enroller interface {
	Enroll(ctx context.Context, req *protocol.EnrollReq) (*enroll.Result, error)
}

type Querier interface {
	Query(ctx context.Context, template, finger string) (string, error)
}

type EnrollOption struct {
	CPF      string
	Finger   string
	UnitCode string
	Out      io.Writer
}

type VerifyOption struct {
	Finger string
	// With Override set, Template is sent as is and no capture happens.
	Override bool
	Template string
	Out      io.Writer
}

// Enroll captures a template and submits it with the identity fields.
func Enroll(ctx context.Context, s sensor.Sensor, e Enroller, opt *EnrollOption) (*enroll.Result, error) {
	template, err := capture(ctx, s)
	if err != nil {
		return nil, errors.Wrap(err, "Can not capture template for enrollment")
	}

	out := writer(opt.Out)
	fmt.Fprintln(out, "Mode: enrollment")

	res, err := e.Enroll(ctx, &protocol.EnrollReq{
		CPF:      opt.CPF,
		Template: template,
		Finger:   opt.Finger,
		UnitCode: opt.UnitCode,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Enrollment failed")
	}

	fmt.Fprintf(out, "Enrollment service answered with HTTP %d\n", res.StatusCode)
	if res.Body != "" {
		fmt.Fprintf(out, "Response body: %s\n", res.Body)
		if enrolled, err := protocol.ReadEnrollRes(strings.NewReader(res.Body)); err == nil && enrolled.ID > 0 {
			slog.Info("Biometric enrolled", "id", enrolled.ID, "person_id", enrolled.Biometric.PersonID, "finger", enrolled.Biometric.Finger)
		}
	}
	return res, nil
}

// Verify sends a template to the verifier and returns its stripped answer.
func Verify(ctx context.Context, s sensor.Sensor, q Querier, opt *VerifyOption) (string, error) {
	out := writer(opt.Out)

	template := opt.Template
	if opt.Override {
		fmt.Fprintf(out, "Using simulated template: %s\n", template)
	} else {
		var err error
		template, err = capture(ctx, s)
		if err != nil {
			return "", errors.Wrap(err, "Can not capture template for verification")
		}
	}

	fmt.Fprintln(out, "Mode: verification")

	response, err := q.Query(ctx, template, opt.Finger)
	if err != nil {
		return "", errors.Wrap(err, "Verification failed")
	}

	slog.Info("Verification answered", "finger", opt.Finger, "decision", protocol.ParseDecision(response).String())
	fmt.Fprintf(out, "Verification response: %s\n", response)
	return response, nil
}

func capture(ctx context.Context, s sensor.Sensor) (string, error) {
	template, err := s.Capture(ctx)
	if err != nil {
		return "", err
	}
	if err := sensor.Check(template); err != nil {
		return "", err
	}
	return template, nil
}

func writer(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
