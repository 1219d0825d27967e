// Package api holds the admin API: the service the daemon exposes over HTTP,
// the wire types, and the client the CLI uses to reach a running daemon.
package api
