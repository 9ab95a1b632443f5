package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	require.Equal(t, DefaultEnrollmentURL, conf.EnrollmentURL)
	require.Equal(t, DefaultVerifier, conf.Verifier)
	require.Equal(t, time.Second, conf.InitDelay())
	require.Equal(t, 2*time.Second, conf.CaptureDelay())
	require.Equal(t, time.Duration(0), conf.HTTPTimeout())
	require.Equal(t, 10*time.Second, conf.DeviceTimeout())
	require.Equal(t, "info", conf.LogLevel)
	require.Empty(t, conf.Device)
}

func TestLoadWithComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		// local backend
		"enrollment_url": "http://127.0.0.1:9000/biometrics",
		"verifier": ["/usr/local/bin/biometric_query"],
		"init_delay_ms": -1,
		"timeout": 5,
		"capture_timeout": -1,
		"units": ["ETEC01",],
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "http://127.0.0.1:9000/biometrics", conf.EnrollmentURL)
	require.Equal(t, []string{"/usr/local/bin/biometric_query"}, conf.Verifier)
	require.Equal(t, time.Duration(0), conf.InitDelay())
	require.Equal(t, 2*time.Second, conf.CaptureDelay())
	require.Equal(t, 5*time.Second, conf.HTTPTimeout())
	require.Equal(t, time.Duration(0), conf.DeviceTimeout())
	require.Equal(t, []string{"ETEC01"}, conf.Units)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"timeout": "soon"}`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestDefaultDoesNotShareVerifier(t *testing.T) {
	conf := Default()
	conf.Verifier[0] = "changed"
	require.Equal(t, "python3", DefaultVerifier[0])
}
