// Package llm wraps an OpenAI-compatible chat completions API for the
// generation pipeline. Completions run in JSON mode with bounded retry and
// exponential backoff; the model-list endpoint backs the health probe.
package llm
