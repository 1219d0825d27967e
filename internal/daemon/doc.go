// Package daemon composes the long-running process: single-instance locking,
// the queue worker, and the HTTP admin API the CLI talks to.
package daemon
