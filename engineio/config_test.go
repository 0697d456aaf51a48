package engineio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	eiop "github.com/njones/eioclient/engineio/protocol"
	eiot "github.com/njones/eioclient/engineio/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "eioclient.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
path: socket.io
protocol: 3
transport: gorilla
open_timeout: 2s
handshake: msgpack
resolve_redirect: true
headers:
  Authorization: Bearer abc
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "socket.io", cfg.Path)
	assert.Equal(t, 3, cfg.Protocol)
	assert.Equal(t, "gorilla", cfg.Transport)
	assert.Equal(t, 2*time.Second, cfg.OpenTimeout)
	assert.Equal(t, 5*time.Second, cfg.CloseTimeout, "the default is kept")
	assert.Equal(t, "msgpack", cfg.Handshake)
	assert.True(t, cfg.ResolveRedirect)
	assert.Equal(t, map[string]string{"Authorization": "Bearer abc"}, cfg.Headers)

	opts, err := cfg.Options()
	require.NoError(t, err)

	c := NewClient(opts...)
	assert.Equal(t, "socket.io", c.path)
	assert.Equal(t, eiop.Version3, c.version)
	assert.Equal(t, 2*time.Second, c.openTimeout)
	assert.Equal(t, 5*time.Second, c.closeTimeout)
	assert.Equal(t, eiop.MsgpackHandshake{}, c.handshake)
	assert.True(t, c.resolveRedirect)
	assert.Equal(t, eiot.Name("gorilla"), c.newTransport().Name())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfigRead)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "protocol: [4"))
	assert.ErrorIs(t, err, ErrConfigRead)

	cfg := DefaultConfig()
	cfg.Transport = "polling"
	_, err = cfg.Options()
	assert.ErrorIs(t, err, ErrUnknownTransport)

	cfg = DefaultConfig()
	cfg.Handshake = "xml"
	_, err = cfg.Options()
	assert.ErrorIs(t, err, ErrUnknownHandshake)
}

func TestDefaultConfigOptions(t *testing.T) {
	opts, err := DefaultConfig().Options()
	require.NoError(t, err)

	c := NewClient(opts...)
	assert.Equal(t, eiot.DefaultPath, c.path)
	assert.Equal(t, eiop.Version4, c.version)
	assert.Equal(t, 10*time.Second, c.openTimeout)
	assert.Equal(t, eiop.JSONHandshake{}, c.handshake)
	assert.False(t, c.resolveRedirect)
	assert.Equal(t, eiot.Name("websocket"), c.newTransport().Name())
}
