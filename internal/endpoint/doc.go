// Package endpoint decides which base URL API calls should target.
//
// # Overview
//
// The same build has to work in two setups:
//
//   - Local containers, where the backend's absolute URL (often
//     http://localhost:8001) is reachable from the client.
//   - Forwarded or remote development environments, where only the origin the
//     client is served from is reachable and a reverse proxy routes API paths
//     to the backend.
//
// Resolve looks at the configured URL and the client's origin and returns
// either that URL (trailing slash stripped) or the empty Resolved value, which
// means "issue relative paths against the origin".
//
// # Rules
//
//  1. Empty configured URL: relative.
//  2. Configured URL without a scheme or unparsable: returned verbatim.
//  3. Loopback configured host: used only when the origin is loopback too.
//  4. Other hosts: used only when the hostname matches the origin exactly.
//
// Rejections emit a warning through the injected Logger. A nil Logger is
// silent, which keeps Resolve usable from tests with synthetic inputs.
//
// # Usage Example
//
//	origin, _ := endpoint.ParseOrigin(cfg.Origin)
//	ep := endpoint.Resolve(cfg.APIURL, origin, slog.Default())
//	url := ep.Join("/upload")
package endpoint
