// Package article resolves job input into article text and validates it.
//
// Resolution handles three source kinds: pasted text and uploaded files pass
// through unchanged, while URLs are fetched with retry and reduced to main
// article text. Validation enforces word-count bounds and the headline/body
// shape before any expensive analysis runs; validation failures are fatal to
// the job and never retried.
package article
