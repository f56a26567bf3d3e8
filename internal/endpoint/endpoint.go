package endpoint

import (
	"net/url"
	"strings"
)

// Resolved is the base URL API calls target. The empty value selects
// relative-path mode, where requests are issued against the page origin and
// an intermediary routes them to the backend.
type Resolved string

// Relative reports whether r selects relative-path mode.
func (r Resolved) Relative() bool {
	return r == ""
}

// Join appends path to the base, mirroring a template like "${base}/upload".
func (r Resolved) Join(path string) string {
	return string(r) + path
}

// String renders the endpoint for display.
func (r Resolved) String() string {
	if r.Relative() {
		return "(relative)"
	}
	return string(r)
}

// Origin describes where the client is served from.
type Origin struct {
	Hostname string
	Origin   string
}

// ParseOrigin builds an Origin from a URL such as "http://localhost:8000".
func ParseOrigin(raw string) (Origin, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Origin{}, err
	}
	origin := Origin{Hostname: strings.ToLower(u.Hostname())}
	if u.Scheme != "" && u.Host != "" {
		origin.Origin = u.Scheme + "://" + u.Host
	}
	return origin, nil
}

// Logger receives resolver diagnostics. *slog.Logger satisfies it.
type Logger interface {
	Warn(msg string, args ...any)
}

// IsLoopback reports whether host is reachable only from the same machine.
func IsLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1"
}

// Resolve picks the base URL for API calls from the configured value and the
// origin the client runs under. A configured URL is honoured only when the
// origin can actually reach it; everything else falls back to relative paths.
func Resolve(configured string, origin Origin, log Logger) Resolved {
	if configured == "" {
		return ""
	}

	u, err := url.Parse(configured)
	if err != nil || u.Scheme == "" {
		return Resolved(configured)
	}
	// Hostnames compare after the lowercasing a URL parser applies.
	host := strings.ToLower(u.Hostname())

	if IsLoopback(host) {
		if IsLoopback(origin.Hostname) {
			return Resolved(strings.TrimSuffix(configured, "/"))
		}
		warn(log, "ignoring configured API URL because page origin is remote; using relative API paths",
			"api_url", configured, "origin", origin.Origin)
		return ""
	}

	if origin.Hostname == host {
		return Resolved(strings.TrimSuffix(configured, "/"))
	}
	warn(log, "configured API URL does not match page origin; using relative API paths",
		"api_url", configured, "origin", origin.Origin)
	return ""
}

func warn(log Logger, msg string, args ...any) {
	if log == nil {
		return
	}
	log.Warn(msg, args...)
}
