// Package retry executes fallible operations with bounded attempts and pure
// exponential backoff.
//
// The delay before attempt n+1 is base * 2^(n-1); there is no jitter, so
// concurrent retries against the same rate-limited provider can synchronize.
// Only errors matching the policy's classifier are retried; everything else
// propagates immediately. The sleeper is injectable so tests can observe
// delays without waiting.
package retry
