package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		args []string
		out  string
		code int
	}{
		{"granted", []string{"q", SimulatedGranted, "index_right"}, "SIM\n", 0},
		{"denied", []string{"q", SimulatedDenied, "index_right"}, "NAO\n", 0},
		{"captured", []string{"q", "BASE64_TEMPLATE_SIMULADO_PARA_CADASTRO_1234567890", "index_right"}, "NAO\n", 0},
		{"missing finger", []string{"q", SimulatedGranted}, "NAO\n", 1},
		{"extra", []string{"q", SimulatedGranted, "index_right", "x"}, "NAO\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.Equal(t, tt.code, run(tt.args, &out))
			require.Equal(t, tt.out, out.String())
		})
	}
}
