package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/acesso-etec/biometric"
	"github.com/acesso-etec/biometric/config"
	"github.com/acesso-etec/biometric/enroll"
	"github.com/acesso-etec/biometric/logging"
	"github.com/acesso-etec/biometric/sensor"
	"github.com/acesso-etec/biometric/verify"
)

const (
	modeEnroll = "cadastro"
	modeVerify = "consulta"
)

type app struct {
	stdout io.Writer
	stderr io.Writer

	newSensor   func(*config.Config, io.Writer) sensor.Sensor
	newEnroller func(*config.Config) biometric.Enroller
	newQuerier  func(*config.Config) biometric.Querier
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := newApp().run(ctx, os.Args)
	stop()
	os.Exit(code)
}

func newApp() *app {
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		newSensor: func(conf *config.Config, out io.Writer) sensor.Sensor {
			if conf.Device != "" {
				return sensor.NewWebcam(conf.Device, conf.DeviceTimeout())
			}
			s := sensor.NewStub(conf.InitDelay(), conf.CaptureDelay())
			s.Out = out
			return s
		},
		newEnroller: func(conf *config.Config) biometric.Enroller {
			return enroll.NewClient(conf.EnrollmentURL, conf.HTTPTimeout())
		},
		newQuerier: func(conf *config.Config) biometric.Querier {
			return verify.NewRunner(conf.Verifier)
		},
	}
}

func (a *app) run(ctx context.Context, args []string) int {
	prog := filepath.Base(args[0])

	var configPath, logLevel string
	flagSet := pflag.NewFlagSet(prog, pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(a.stderr)
	flagSet.StringVar(&configPath, "config", config.DefaultPath, "path to the JSON config file")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	help := flagSet.BoolP("help", "h", false, "show help")
	flagSet.Usage = func() { a.usage(prog, flagSet) }

	if err := flagSet.Parse(args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 1
	}
	if *help {
		a.usage(prog, flagSet)
		return 0
	}

	rest := flagSet.Args()
	if len(rest) < 1 {
		a.usage(prog, flagSet)
		return 1
	}
	mode, params := rest[0], rest[1:]

	switch mode {
	case modeEnroll:
		if len(params) != 3 {
			fmt.Fprintln(a.stderr, "Error: cadastro requires CPF, finger type and unit code.")
			a.usage(prog, flagSet)
			return 1
		}
	case modeVerify:
		if len(params) < 1 || len(params) > 2 {
			fmt.Fprintln(a.stderr, "Error: consulta requires a finger type and optionally a simulated template.")
			a.usage(prog, flagSet)
			return 1
		}
	default:
		fmt.Fprintf(a.stderr, "Invalid mode: %s\n", mode)
		a.usage(prog, flagSet)
		return 1
	}

	conf, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(a.stderr, "Can not load config: %v\n", err)
		return 1
	}
	if logLevel != "" {
		conf.LogLevel = logLevel
	}
	if conf.Journal {
		logging.InitJournalLogger(conf.LogLevel)
	} else {
		logging.InitLogger(conf.LogLevel)
	}

	s := a.newSensor(conf, a.stdout)
	if err := s.Init(ctx); err != nil {
		fmt.Fprintf(a.stderr, "Failed to initialize the sensor: %v\n", err)
		return 1
	}

	switch mode {
	case modeEnroll:
		_, err = biometric.Enroll(ctx, s, a.newEnroller(conf), &biometric.EnrollOption{
			CPF:      params[0],
			Finger:   params[1],
			UnitCode: params[2],
			Out:      a.stdout,
		})
		if err != nil {
			slog.Debug("Enrollment error", "error", fmt.Sprintf("%+v", err))
			fmt.Fprintf(a.stderr, "Biometric enrollment failed: %v\n", err)
			return 1
		}
		fmt.Fprintln(a.stdout, "Biometric enrollment completed successfully!")

	case modeVerify:
		opt := &biometric.VerifyOption{Finger: params[0], Out: a.stdout}
		if len(params) == 2 {
			opt.Override = true
			opt.Template = params[1]
		}
		if _, err = biometric.Verify(ctx, s, a.newQuerier(conf), opt); err != nil {
			slog.Debug("Verification error", "error", fmt.Sprintf("%+v", err))
			fmt.Fprintf(a.stderr, "Biometric verification failed: %v\n", err)
			return 1
		}
		fmt.Fprintln(a.stdout, "Biometric verification finished.")
	}

	return 0
}

func (a *app) usage(prog string, flagSet *pflag.FlagSet) {
	fmt.Fprintf(a.stderr, `Usage: %[1]s [flags] <mode> [params]
Modes:
  cadastro <cpf> <finger_type> <unit_code>
  consulta <finger_type> [simulated_template]
Examples:
  %[1]s cadastro 123.456.789-09 index_right ETEC01
  %[1]s consulta index_right
  %[1]s consulta index_right SIMULATED_GRANTED_TEMPLATE
  %[1]s consulta index_right SIMULATED_DENIED_TEMPLATE
Flags:
`, prog)
	fmt.Fprint(a.stderr, flagSet.FlagUsages())
}
