package conf

import (
	"os"
	"path/filepath"
	"pduchat/internal/flog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte(`
nickname: alice
directory:
  servers: ["127.0.0.1:1337"]
`))
	require.NoError(t, err)

	assert.Equal(t, "alice", c.Nickname)
	assert.Equal(t, flog.Info, c.Log.Level)
	assert.Equal(t, []string{"127.0.0.1:1337"}, c.Directory.Servers)
	assert.Equal(t, 3*time.Second, c.Directory.Timeout)
	assert.Equal(t, 64, c.Directory.MaxDatagrams)
	assert.False(t, c.Directory.LegacyReassembly)
	assert.Equal(t, time.Minute, c.Directory.CacheTTL())
	assert.Equal(t, 5*time.Second, c.Chat.ConnectTimeout)
	assert.Equal(t, "foobar", c.Chat.Key)
	assert.Equal(t, "standard", c.Chat.Cipher)
	assert.Equal(t, time.Second, c.Chat.SweepInterval)
	assert.Equal(t, 256, c.Chat.EventBuffer)
	assert.Equal(t, "direct", c.Outbound.Type)
	assert.False(t, c.Capture.Enabled())
	assert.Equal(t, 65535, c.Capture.Snaplen)
}

func TestParseFull(t *testing.T) {
	c, err := Parse([]byte(`
log:
  level: DEBUG
nickname: bob
directory:
  servers: ["dir-a:1337", "dir-b:1337"]
  timeout_ms: 500
  max_datagrams: 8
  legacy_reassembly: true
chat:
  connect_timeout_ms: 1500
  key: hunter2
  cipher: chacha20
  compress: true
  encrypt: true
outbound:
  type: socks5
  addr: socks5://u:p@127.0.0.1:1080
capture:
  file: /tmp/chat.pcap
  snaplen: 1500
`))
	require.NoError(t, err)

	assert.Equal(t, flog.Debug, c.Log.Level)
	assert.Equal(t, []string{"dir-a:1337", "dir-b:1337"}, c.Directory.Servers)
	assert.Equal(t, 500*time.Millisecond, c.Directory.Timeout)
	assert.True(t, c.Directory.LegacyReassembly)
	assert.Equal(t, "chacha20", c.Chat.Cipher)
	assert.True(t, c.Chat.Compress)
	assert.True(t, c.Chat.Encrypt)
	assert.Equal(t, "socks5", c.Outbound.Type)
	assert.Equal(t, "127.0.0.1:1080", c.Outbound.Addr)
	assert.Equal(t, "u", c.Outbound.Username)
	assert.Equal(t, "p", c.Outbound.Password)
	assert.True(t, c.Capture.Enabled())
}

// TestValidation tests that every invalid section is reported
func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "no directory servers",
			yaml: `nickname: a`,
			want: "directory servers are required",
		},
		{
			name: "bad server address",
			yaml: "directory:\n  servers: [\"nohost\"]",
			want: "must be host:port",
		},
		{
			name: "nickname too long",
			yaml: "nickname: " + strings.Repeat("n", 256) + "\ndirectory:\n  servers: [\"a:1\"]",
			want: "nickname must be at most 255 bytes",
		},
		{
			name: "unknown cipher",
			yaml: "chat:\n  cipher: rot13\ndirectory:\n  servers: [\"a:1\"]",
			want: "chat cipher must be one of",
		},
		{
			name: "bad log level",
			yaml: "log:\n  level: loud\ndirectory:\n  servers: [\"a:1\"]",
			want: "loud",
		},
		{
			name: "socks5 without addr",
			yaml: "outbound:\n  type: socks5\ndirectory:\n  servers: [\"a:1\"]",
			want: "outbound addr is required",
		},
		{
			name: "unknown outbound",
			yaml: "outbound:\n  type: tor\ndirectory:\n  servers: [\"a:1\"]",
			want: "outbound type must be",
		},
		{
			name: "negative timeout",
			yaml: "directory:\n  servers: [\"a:1\"]\n  timeout_ms: -5",
			want: "timeout_ms must be between",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateNickname(t *testing.T) {
	assert.NoError(t, ValidateNickname("alice"))
	assert.NoError(t, ValidateNickname(strings.Repeat("n", 255)))
	assert.Error(t, ValidateNickname(""))
	assert.Error(t, ValidateNickname(strings.Repeat("n", 256)))
	assert.Error(t, ValidateNickname("a\x00b"))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pduchat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nickname: carol\ndirectory:\n  servers: [\"localhost:1337\"]\n"), 0o600))

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "carol", c.Nickname)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
