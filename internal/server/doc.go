// Package server is the demo backend.
//
// Routes:
//
//	GET  /         health message
//	POST /upload   multipart field "file", stored by name
//	POST /message  form field "message"
//	GET  /files    filename and length of every stored file
//
// Every response carries an X-Request-ID and permissive CORS headers so a
// browser page served from another origin can call it directly.
package server
