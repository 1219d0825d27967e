// Package health probes the generation provider without ever failing the
// caller. An unconfigured provider yields an all-false snapshot with no
// network traffic, so status surfaces stay cheap and safe to hit.
package health
