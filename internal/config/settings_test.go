package config

import (
	"testing"

	"github.com/rileyhilliard/rigmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("192.168.1.50", "4111")
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.50", s.Host)
	assert.Equal(t, 4111, s.Port)
	assert.Equal(t, DefaultInterval, s.Interval)
	assert.Equal(t, DefaultReadTimeout, s.ReadTimeout)
	assert.Equal(t, DefaultDialTimeout, s.DialTimeout)
	assert.False(t, s.Debug)
}

func TestLoad_DebugFromEnv(t *testing.T) {
	t.Setenv("RIGMON_DEBUG", "1")

	s, err := Load("miner.local", "4111")
	require.NoError(t, err)
	assert.True(t, s.Debug)
}

func TestLoad_InvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		host string
		port string
	}{
		{"empty host", "", "4111"},
		{"blank host", "   ", "4111"},
		{"non numeric port", "10.0.0.5", "abc"},
		{"float port", "10.0.0.5", "41.5"},
		{"zero port", "10.0.0.5", "0"},
		{"port too large", "10.0.0.5", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(tt.host, tt.port)
			assert.Nil(t, s)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestSettings_Address(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"10.0.0.5", 4111, "10.0.0.5:4111"},
		{"miner.local", 80, "miner.local:80"},
		{"fe80::1", 4111, "[fe80::1]:4111"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			s := &Settings{Host: tt.host, Port: tt.port}
			assert.Equal(t, tt.want, s.Address())
		})
	}
}
