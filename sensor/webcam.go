package sensor

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/blackjack/webcam"
	"github.com/pkg/errors"
)

// frameWait is the per-wait timeout in seconds passed to WaitForFrame.
const frameWait = 1

// frameSource is the subset of *webcam.Webcam the reader needs.
type frameSource interface {
	StartStreaming() error
	WaitForFrame(timeout uint32) error
	ReadFrame() ([]byte, error)
	Close() error
}

// Webcam captures a single frame from a V4L2 device and uses its
// base64 encoding as the template.
type Webcam struct {
	Device string
	// Timeout bounds Capture. Zero waits until ctx is done.
	Timeout time.Duration

	open func(device string) (frameSource, error)
}

func NewWebcam(device string, timeout time.Duration) *Webcam {
	return &Webcam{Device: device, Timeout: timeout, open: openWebcam}
}

func openWebcam(device string) (frameSource, error) {
	return webcam.Open(device)
}

// Init checks that the device can be opened.
func (w *Webcam) Init(ctx context.Context) error {
	cam, err := w.open(w.Device)
	if err != nil {
		return errors.Wrap(err, "Can not open device")
	}
	slog.Info("Sensor device opened", "device", w.Device)
	return cam.Close()
}

func (w *Webcam) Capture(ctx context.Context) (string, error) {
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	cam, err := w.open(w.Device)
	if err != nil {
		return "", errors.Wrap(err, "Can not open device")
	}
	defer cam.Close()

	if err := cam.StartStreaming(); err != nil {
		return "", errors.Wrap(err, "Can not start streaming")
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", errors.Wrap(err, "No usable frame captured")
		}

		err := cam.WaitForFrame(frameWait)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			slog.Debug("Frame wait timed out", "device", w.Device)
			continue
		default:
			return "", errors.Wrap(err, "Frame wait failed")
		}

		frame, err := cam.ReadFrame()
		if err != nil {
			return "", errors.Wrap(err, "Read frame failed")
		}
		if !usableFrame(frame) {
			continue
		}

		return base64.StdEncoding.EncodeToString(frame), nil
	}
}
