package filesystem

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Exported constants.
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
	SchemeSFTP  = "sftp"

	// DefaultSFTPPort is used when an sftp:// endpoint has no explicit port
	DefaultSFTPPort = 22
)

// Endpoint represents a parsed remote endpoint URL.
type Endpoint struct {
	Scheme string

	// For WebDAV endpoints: the base URL handed to the client (no trailing slash)
	BaseURL string

	// For SFTP endpoints
	Host string
	Port int
	Root string // Remote path the remote dir is resolved against
}

// IsSFTP reports whether the endpoint uses the SFTP transport.
func (e *Endpoint) IsSFTP() bool {
	return e.Scheme == SchemeSFTP
}

// TrimEndpointURL strips one trailing slash from an endpoint URL.
func TrimEndpointURL(raw string) string {
	return strings.TrimSuffix(raw, "/")
}

// ParseEndpoint parses a remote endpoint URL, detecting the transport from its scheme.
// Examples:
//   - https://dav.example.com/remote.php/webdav
//   - http://localhost:8080
//   - sftp://files.example.com:2222/srv/data
//
// Credentials are never taken from the URL; they are configured separately.
func ParseEndpoint(raw string) (*Endpoint, error) {
	u, err := url.Parse(TrimEndpointURL(raw)) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL: %w", err)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("endpoint URL must include a host: %q", raw) //nolint:err113 // URL validation with actual value
	}

	switch strings.ToLower(u.Scheme) {
	case SchemeHTTP, SchemeHTTPS:
		u.User = nil

		return &Endpoint{
			Scheme:  strings.ToLower(u.Scheme),
			BaseURL: u.String(),
		}, nil
	case SchemeSFTP:
		return parseSFTPEndpoint(u)
	default:
		return nil, fmt.Errorf("unsupported endpoint scheme %q (valid: http, https, sftp)", u.Scheme) //nolint:err113 // URL validation with actual scheme
	}
}

func parseSFTPEndpoint(u *url.URL) (*Endpoint, error) {
	port := DefaultSFTPPort
	if portStr := u.Port(); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid port number: %w", err)
		}
		port = p
	}

	// sftp://host/path and sftp://host//path both address /path; the remote dir is
	// appended to it, so an empty root means the server's filesystem root.
	root := "/" + strings.TrimLeft(u.Path, "/")

	return &Endpoint{
		Scheme: SchemeSFTP,
		Host:   u.Hostname(),
		Port:   port,
		Root:   strings.TrimSuffix(root, "/"),
	}, nil
}
