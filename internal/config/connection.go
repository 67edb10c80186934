package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/meschbach/go-junk-bucket/pkg"
)

const (
	KeyHost      = "ip"
	KeyHostAlias = "host"
	KeyPort      = "port"
	KeyNamespace = "namespace"
	KeyUsername  = "username"
	KeyPassword  = "password"
	KeySSLMode   = "sslmode"

	DefaultSSLMode = "prefer"
)

// Connection describes how to reach the backing store.
type Connection struct {
	Host      string
	Port      int
	Namespace string
	Username  string
	Password  string
	SSLMode   string
}

type MissingKeyError struct {
	Key string
}

func (m *MissingKeyError) Error() string {
	return fmt.Sprintf("config key %q is required", m.Key)
}

type InvalidPortError struct {
	Value      string
	Underlying error
}

func (i *InvalidPortError) Error() string {
	return fmt.Sprintf("invalid port %q: %s", i.Value, i.Underlying.Error())
}

func (i *InvalidPortError) Unwrap() error {
	return i.Underlying
}

// Connection extracts the connection settings.  Every key except sslmode must be present.
func (v Values) Connection() (*Connection, error) {
	host, ok := v[KeyHost]
	if !ok {
		host, ok = v[KeyHostAlias]
	}
	if !ok {
		return nil, &MissingKeyError{Key: KeyHost}
	}

	required := make(map[string]string, 4)
	for _, key := range []string{KeyPort, KeyNamespace, KeyUsername, KeyPassword} {
		value, has := v[key]
		if !has {
			return nil, &MissingKeyError{Key: key}
		}
		required[key] = value
	}

	port, err := parsePort(required[KeyPort])
	if err != nil {
		return nil, err
	}

	sslMode := v[KeySSLMode]
	if sslMode == "" {
		sslMode = DefaultSSLMode
	}

	return &Connection{
		Host:      host,
		Port:      port,
		Namespace: required[KeyNamespace],
		Username:  required[KeyUsername],
		Password:  required[KeyPassword],
		SSLMode:   sslMode,
	}, nil
}

func parsePort(value string) (int, error) {
	port, err := strconv.Atoi(value)
	if err != nil {
		return 0, &InvalidPortError{Value: value, Underlying: err}
	}
	if port <= 0 || port > 65535 {
		return 0, &InvalidPortError{Value: value, Underlying: strconv.ErrRange}
	}
	return port, nil
}

func (c *Connection) LoadEnv() (*Connection, error) {
	return c.LoadEnvWithPrefix("")
}

// LoadEnvWithPrefix replaces settings with TRADEINGEST_* environment variables when present.
func (c *Connection) LoadEnvWithPrefix(prefix string) (*Connection, error) {
	c.Host = pkg.EnvOrDefault(prefix+"TRADEINGEST_HOST", c.Host)
	c.Namespace = pkg.EnvOrDefault(prefix+"TRADEINGEST_NAMESPACE", c.Namespace)
	c.Username = pkg.EnvOrDefault(prefix+"TRADEINGEST_USERNAME", c.Username)
	c.Password = pkg.EnvOrDefault(prefix+"TRADEINGEST_PASSWORD", c.Password)
	c.SSLMode = pkg.EnvOrDefault(prefix+"TRADEINGEST_SSLMODE", c.SSLMode)

	portValue := pkg.EnvOrDefault(prefix+"TRADEINGEST_PORT", strconv.Itoa(c.Port))
	port, err := parsePort(portValue)
	if err != nil {
		return nil, err
	}
	c.Port = port
	return c, nil
}

// URL builds a PostgreSQL connection URL.  The namespace is used as the database name.
func (c *Connection) URL() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = DefaultSSLMode
	}
	out := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Namespace,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return out.String()
}
