// Package notifications publishes queue outcomes to an ntfy topic. Without a
// configured topic every call is a silent noop, so callers never guard their
// notification sites.
package notifications
