// Package clientip extracts the visitor's address from an HTTP request.
//
// Proxy headers are checked in order: CF-Connecting-IP, DO-Connecting-IP,
// the leftmost X-Forwarded-For entry and X-Real-IP. RemoteAddr is the last
// resort. Invalid and unspecified addresses are skipped, and results are
// normalized, so "::ffff:10.0.0.1" and "10.0.0.1" give the same key.
//
// The headers are only trustworthy behind a proxy that overwrites them.
package clientip
