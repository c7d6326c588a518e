package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_ProdIsJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(envProd, &buf)

	l.Debug("hidden")
	l.Info("visible", "k", "v")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "visible", rec["msg"])
	assert.Equal(t, "v", rec["k"])
}

func TestErrorErr_AddsErrorAttr(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(envDev, &buf)

	l.With("user_id", "42").ErrorErr("boom", errors.New("db down"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "db down", rec["error"])
	assert.Equal(t, "42", rec["user_id"])
}

func TestLocalIsText(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(envLocal, &buf).Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
