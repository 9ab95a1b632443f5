package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/acesso-etec/biometric/config"
	"github.com/acesso-etec/biometric/logging"
	"github.com/acesso-etec/biometric/server"
)

func main() {
	if err := serve(); err != nil {
		log.Fatal(err)
	}
}

func serve() error {
	var configPath, listen, pidFile string
	flagSet := pflag.NewFlagSet("biometricd", pflag.ExitOnError)
	flagSet.StringVar(&configPath, "config", config.DefaultPath, "path to the JSON config file")
	flagSet.StringVar(&listen, "listen", "", "address to listen on (overrides config)")
	flagSet.StringVar(&pidFile, "pid-file", "", "refuse to start while the process in this file is alive")
	flagSet.Parse(os.Args[1:])

	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if listen != "" {
		conf.Listen = listen
	}
	if conf.Journal {
		logging.InitJournalLogger(conf.LogLevel)
	} else {
		logging.InitLogger(conf.LogLevel)
	}
	logger := logging.GetLogger()

	if pidFile != "" {
		if isAlreadyRun(pidFile) {
			return errors.New("already run")
		}
		if err := writeLockFile(pidFile); err != nil {
			return errors.Wrap(err, "Can not write pid file")
		}
		defer os.Remove(pidFile)
	}

	registry := server.NewRegistry(conf.People, conf.Units)
	srv := server.NewServer(registry, conf.Listen)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	daemon.SdNotify(false, daemon.SdNotifyReady)
	logger.Info("Enrollment service ready", "units", strings.Join(conf.Units, ","), "people", len(conf.People))

	select {
	case err := <-errc:
		return errors.Wrap(err, "Listen error")
	case sig := <-sigc:
		logger.Info("Caught signal, shutting down", "signal", sig.String())
	}

	daemon.SdNotify(false, daemon.SdNotifyStopping)
	logger.Info("Discarding in-memory enrollments", "count", registry.Len())
	return srv.Stop()
}

// isAlreadyRun reports whether path names a live process.
func isAlreadyRun(path string) bool {
	pid, err := readPid(path)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			slog.Warn("Ignoring pid file", "path", path, "error", err)
		}
		return false
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

func readPid(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.Wrap(err, "Invalid pid file")
	}
	return pid, nil
}

func writeLockFile(path string) error {
	pid := strconv.Itoa(os.Getpid())
	return errors.WithStack(os.WriteFile(path, []byte(pid), 0o644))
}
