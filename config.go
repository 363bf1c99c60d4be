package kafka

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// Config describes a broker connection. It is read-only input from the layer
// that owns connection storage; the client never mutates it.
type Config struct {
	// URL is scheme://host:port. Accepted schemes: kafka, tcp, plaintext
	// (all plain TCP) and ssl (TLS, also implied by a non-nil TLS config).
	URL      string
	Username string
	Password string
	// TLS enables encrypted connections when non-nil.
	TLS *tls.Config
	// Options carries provider options. "client.id" is required (there is
	// no implicit default identifier). "group.id" is used only as a label,
	// it does not make the client a member of a consumer group.
	Options map[string]string
}

// ClientId returns the explicitly configured client identifier.
func (c *Config) ClientId() string {
	return c.Options["client.id"]
}

// Addr validates the config and returns the host:port to dial. Errors wrap
// ErrInvalidConfiguration.
func (c *Config) Addr() (string, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	switch u.Scheme {
	case "kafka", "tcp", "plaintext", "ssl":
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidConfiguration, u.Scheme)
	}
	host, port := u.Hostname(), u.Port()
	if host == "" {
		return "", fmt.Errorf("%w: missing host in %q", ErrInvalidConfiguration, c.URL)
	}
	if port == "" {
		return "", fmt.Errorf("%w: missing port in %q", ErrInvalidConfiguration, c.URL)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return "", fmt.Errorf("%w: invalid port %q", ErrInvalidConfiguration, port)
	}
	if c.ClientId() == "" {
		return "", fmt.Errorf("%w: client.id option is required", ErrInvalidConfiguration)
	}
	return net.JoinHostPort(host, port), nil
}

// Validate checks the config without dialing.
func (c *Config) Validate() error {
	_, err := c.Addr()
	return err
}

// Secure reports whether the connection should use TLS.
func (c *Config) Secure() bool {
	if c.TLS != nil {
		return true
	}
	u, err := url.Parse(c.URL)
	return err == nil && u.Scheme == "ssl"
}
