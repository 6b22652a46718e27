// Package localgen talks to a locally hosted inference server. It satisfies
// llm.Completer so pipelines can fall back to local generation when the
// hosted provider is unavailable or when local generation is preferred.
//
// A weighted semaphore bounds concurrent requests because local servers
// typically serve one model on limited hardware.
package localgen
