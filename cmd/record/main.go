// record captures templates with the configured sensor and appends them,
// one per line, to a file. The output can be fed back to
// biometric_interface consulta as a simulated template.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/acesso-etec/biometric/config"
	"github.com/acesso-etec/biometric/sensor"
)

func main() {
	if err := mainE(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func mainE() error {
	var configPath, output string
	var count int
	flagSet := pflag.NewFlagSet("record", pflag.ExitOnError)
	flagSet.StringVar(&configPath, "config", config.DefaultPath, "path to the JSON config file")
	flagSet.StringVarP(&output, "output", "o", "capture.template", "file to append templates to")
	flagSet.IntVarP(&count, "count", "n", 1, "number of captures")
	flagSet.Parse(os.Args[1:])

	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var s sensor.Sensor = sensor.NewStub(conf.InitDelay(), conf.CaptureDelay())
	if conf.Device != "" {
		s = sensor.NewWebcam(conf.Device, conf.DeviceTimeout())
	}

	file, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("can not open %s: %w", output, err)
	}
	defer file.Close()

	return record(context.Background(), s, file, count)
}

func record(ctx context.Context, s sensor.Sensor, w io.Writer, count int) error {
	if err := s.Init(ctx); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		template, err := s.Capture(ctx)
		if err != nil {
			return err
		}
		if err := sensor.Check(template); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, template); err != nil {
			return err
		}
		fmt.Printf("  - Template [%d] %s\n", i, sensor.Preview(template))
	}
	return nil
}
