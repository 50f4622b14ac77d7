// Package config loads the settings for a dashboard session.
//
// The device address comes from the command line. Timings use built-in
// defaults and only the debug switch can be set from the environment.
package config

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/rigmon/internal/errors"
	"github.com/spf13/viper"
)

// Setting keys understood by Load.
const (
	KeyHost        = "host"
	KeyPort        = "port"
	KeyInterval    = "interval"
	KeyReadTimeout = "read_timeout"
	KeyDialTimeout = "dial_timeout"
	KeyDebug       = "debug"
)

// EnvPrefix is the prefix for the environment keys bound by Load.
// Only KeyDebug is bound: device settings come from the command line.
const EnvPrefix = "RIGMON"

// Defaults for the polling loop.
const (
	DefaultInterval    = 30 * time.Second
	DefaultReadTimeout = 2 * time.Second
	DefaultDialTimeout = 5 * time.Second
)

// Settings holds everything the dashboard needs to run against one device.
type Settings struct {
	Host        string
	Port        int
	Interval    time.Duration // Wait between refresh cycles
	ReadTimeout time.Duration // Idle timeout that ends a reply
	DialTimeout time.Duration
	Debug       bool
}

// Address returns the host:port dial address of the device.
func (s *Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Load builds Settings from the positional host and port arguments on top of
// the built-in defaults. No config file is read.
func Load(host, port string) (*Settings, error) {
	v := newViper()

	host = strings.TrimSpace(host)
	if host == "" {
		return nil, errors.New(errors.ErrConfig,
			"Missing device address",
			"Pass the miner IP or hostname as the first argument")
	}

	portNum, err := strconv.Atoi(strings.TrimSpace(port))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid port: "+port,
			"Pass the miner API port as an integer, e.g. 4111")
	}
	if portNum < 1 || portNum > 65535 {
		return nil, errors.New(errors.ErrConfig,
			"Port out of range: "+port,
			"Use a port between 1 and 65535")
	}

	v.Set(KeyHost, host)
	v.Set(KeyPort, portNum)

	return fromViper(v), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyInterval, DefaultInterval)
	v.SetDefault(KeyReadTimeout, DefaultReadTimeout)
	v.SetDefault(KeyDialTimeout, DefaultDialTimeout)
	v.SetDefault(KeyDebug, false)

	v.SetEnvPrefix(EnvPrefix)
	_ = v.BindEnv(KeyDebug)

	return v
}

func fromViper(v *viper.Viper) *Settings {
	return &Settings{
		Host:        v.GetString(KeyHost),
		Port:        v.GetInt(KeyPort),
		Interval:    v.GetDuration(KeyInterval),
		ReadTimeout: v.GetDuration(KeyReadTimeout),
		DialTimeout: v.GetDuration(KeyDialTimeout),
		Debug:       v.GetBool(KeyDebug),
	}
}
