package protocol

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnrollReqFields(t *testing.T) {
	var buf bytes.Buffer
	err := WriteEnrollReq(&buf, &EnrollReq{
		CPF:      "123.456.789-00",
		Template: "BASE64_TEMPLATE",
		Finger:   "index_right",
		UnitCode: "ETEC01",
	})
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	require.Equal(t, map[string]string{
		"cpf":       "123.456.789-00",
		"template":  "BASE64_TEMPLATE",
		"finger":    "index_right",
		"unit_code": "ETEC01",
	}, fields)
}

func TestEnrollReqEscapesQuotes(t *testing.T) {
	req := &EnrollReq{CPF: `1"2`, Template: `a\b`, Finger: "x", UnitCode: "y"}

	var buf bytes.Buffer
	require.NoError(t, WriteEnrollReq(&buf, req))

	got, err := ReadEnrollReq(&buf)
	require.NoError(t, err)
	require.Equal(t, req, got)
}

func TestFingerValid(t *testing.T) {
	require.Len(t, Fingers, 10)
	require.True(t, IndexRight.Valid())
	require.True(t, Finger("pinky_left").Valid())
	require.False(t, Finger("index").Valid())
	require.False(t, Finger("").Valid())
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		out  string
		want Decision
	}{
		{"SIM", Granted},
		{"NAO", Denied},
		{"sim", Granted},
		{"", Unknown},
		{"MAYBE", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			require.Equal(t, tt.want, ParseDecision(tt.out))
		})
	}
	require.Equal(t, "granted", Granted.String())
	require.Equal(t, "unknown", Unknown.String())
}

func TestErrorRes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteErrorRes(&buf, "Person not found", "Check the CPF"))

	res, err := ReadErrorRes(&buf)
	require.NoError(t, err)
	require.Equal(t, "Person not found", res.Error)
	require.Equal(t, "Check the CPF", res.Solution)
	require.Empty(t, res.Details)
}
