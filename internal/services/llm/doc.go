// Package llm talks to the hosted text-generation provider used for content
// analysis and derived-content generation.
//
// The Client wraps the provider's messages API with bounded retry for
// transient failures (timeouts, 408/429/5xx) and exposes DecodeJSON for the
// JSON payloads models return, tolerating code fences and leading prose. The
// Completer interface is what pipelines depend on; the local inference
// fallback in package localgen satisfies it too.
package llm
