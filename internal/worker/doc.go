// Package worker drives the generation queue. A single polling loop claims
// the oldest pending item, runs the pipeline, and records the terminal
// status. Ticks are single flight: the timer and the manual trigger can
// never process two items concurrently.
package worker
