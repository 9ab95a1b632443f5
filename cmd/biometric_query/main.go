// biometric_query is a verifier for biometric_interface consulta mode.
// It prints SIM when access is granted and NAO otherwise.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/acesso-etec/biometric/protocol"
)

const (
	SimulatedGranted = "SIMULATED_GRANTED_TEMPLATE"
	SimulatedDenied  = "SIMULATED_DENIED_TEMPLATE"
)

func main() {
	os.Exit(run(os.Args, os.Stdout))
}

func run(args []string, out io.Writer) int {
	if len(args) != 3 {
		fmt.Fprintln(out, string(protocol.Denied))
		return 1
	}

	decision := decide(args[1], protocol.Finger(args[2]))
	fmt.Fprintln(out, string(decision))
	return 0
}

func decide(template string, finger protocol.Finger) protocol.Decision {
	switch template {
	case SimulatedGranted:
		return protocol.Granted
	case SimulatedDenied:
		return protocol.Denied
	}
	// No matcher is wired in; real captures are always denied.
	slog.Debug("No match for template", "finger", finger, "length", len(template))
	return protocol.Denied
}
