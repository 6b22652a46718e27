// Package speech synthesizes narration audio through a hosted text-to-speech
// provider. The audio pipeline uses it for narration tracks and the
// translation pipeline for Hindi voiceovers.
package speech
