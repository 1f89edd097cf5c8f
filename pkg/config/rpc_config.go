package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// Default node connection parameters.
const (
	DefaultScheme = "http"
	DefaultHost   = "127.0.0.1"
	DefaultPort   = 8648
)

// RPC describes the connection to the node RPC interface. It's fixed for the
// client lifetime.
type RPC struct {
	Scheme   string `yaml:"Scheme"`
	User     string `yaml:"User"`
	Password string `yaml:"Password"`
	Host     string `yaml:"Host"`
	Port     uint16 `yaml:"Port"`
}

// DefaultRPC returns the connection parameters of a local node with no
// credentials.
func DefaultRPC() RPC {
	return RPC{
		Scheme: DefaultScheme,
		Host:   DefaultHost,
		Port:   DefaultPort,
	}
}

// Endpoint returns the node URL (scheme://host:port) without credentials.
func (r RPC) Endpoint() string {
	u := url.URL{
		Scheme: r.Scheme,
		Host:   net.JoinHostPort(r.Host, strconv.FormatUint(uint64(r.Port), 10)),
	}
	return u.String()
}

// Validate checks the connection parameters.
func (r RPC) Validate() error {
	if r.Scheme != "http" && r.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", r.Scheme)
	}
	if r.Host == "" {
		return errors.New("empty host")
	}
	if r.Port == 0 {
		return errors.New("zero port")
	}
	return nil
}
