package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"sigs.k8s.io/yaml"
)

const (
	DefaultPort = 3000
	EnvPort     = "PORT"

	defaultShutdownTimeoutSeconds = 5
)

var ErrInvalidPort = errors.New("invalid port")

type Server struct {
	// Address is the host part of the listen address. Empty binds every interface.
	Address   string `json:"address"`
	Port      int    `json:"port"`
	AccessLog bool   `json:"accessLog"`
	// ShutdownTimeoutSeconds bounds how long in-flight requests get once shutdown starts.
	ShutdownTimeoutSeconds float64 `json:"shutdownTimeoutSeconds"`
}

// WithDefaults fills zero fields. Config files go through Read, which keeps
// explicit zeros.
func (s Server) WithDefaults() Server {
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.ShutdownTimeoutSeconds == 0 {
		s.ShutdownTimeoutSeconds = defaultShutdownTimeoutSeconds
	}
	return s
}

func (s Server) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("%w: %d is out of range", ErrInvalidPort, s.Port)
	}
	if s.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("invalid config: shutdownTimeoutSeconds can't be negative")
	}
	return nil
}

func (s Server) Addr() string {
	return net.JoinHostPort(s.Address, strconv.Itoa(s.Port))
}

func (s Server) ShutdownTimeout() time.Duration {
	return time.Millisecond * time.Duration(s.ShutdownTimeoutSeconds*1000)
}

// ParsePort turns the raw PORT value into a port number.
// An empty value means the variable is absent and yields DefaultPort.
func ParsePort(raw string) (int, error) {
	if raw == "" {
		return DefaultPort, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidPort, raw)
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("%w: %d is out of range", ErrInvalidPort, port)
	}
	return port, nil
}

// file mirrors Server with pointers, so an explicit zero in the YAML is kept
// and only missing keys fall back to defaults.
type file struct {
	Address                string   `json:"address"`
	Port                   *int     `json:"port"`
	AccessLog              bool     `json:"accessLog"`
	ShutdownTimeoutSeconds *float64 `json:"shutdownTimeoutSeconds"`
}

func (f file) server() Server {
	s := Server{
		Address:                f.Address,
		Port:                   DefaultPort,
		AccessLog:              f.AccessLog,
		ShutdownTimeoutSeconds: defaultShutdownTimeoutSeconds,
	}
	if f.Port != nil {
		s.Port = *f.Port
	}
	if f.ShutdownTimeoutSeconds != nil {
		s.ShutdownTimeoutSeconds = *f.ShutdownTimeoutSeconds
	}
	return s
}

// Read loads a YAML server config. Unknown keys are rejected. Keys left out
// get their defaults; port 0 asks for an ephemeral port and a zero shutdown
// timeout stops without waiting for in-flight requests.
func Read(path string) (Server, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Server{}, fmt.Errorf("read config %q: %w", path, err)
	}
	return parse(b)
}

func parse(b []byte) (Server, error) {
	var f file
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return Server{}, fmt.Errorf("unmarshal config: %w", err)
	}
	s := f.server()
	if err := s.Validate(); err != nil {
		return Server{}, err
	}
	return s, nil
}

// Load resolves the effective server config. A non-empty rawPort wins over the
// file's port, which wins over DefaultPort. An empty path skips the file.
func Load(path string, rawPort string) (Server, error) {
	s := Server{}.WithDefaults()
	if path != "" {
		var err error
		s, err = Read(path)
		if err != nil {
			return Server{}, err
		}
	}
	if rawPort != "" {
		port, err := ParsePort(rawPort)
		if err != nil {
			return Server{}, err
		}
		s.Port = port
	}
	return s, nil
}
