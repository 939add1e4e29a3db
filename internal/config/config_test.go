package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
listen_addr: 0.0.0.0:7000
data_dir: /var/lib/caskdb
checkpoint_interval: 30
`))
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:7000", cfg.ListenAddr)
	require.Equal(t, "/var/lib/caskdb", cfg.DataDir)
	require.Equal(t, 30*time.Second, cfg.CheckpointInterval)
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("data_dir: ./db\n"))
	require.NoError(t, err)
	require.Equal(t, Default().ListenAddr, cfg.ListenAddr)
	require.Equal(t, Default().CheckpointInterval, cfg.CheckpointInterval)
	require.Equal(t, "./db", cfg.DataDir)
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("checkpoint_interval: -5\n"))
	require.Error(t, err)

	_, err = Parse([]byte("not yaml: [\n"))
	require.Error(t, err)
}
