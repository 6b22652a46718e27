// Package media shells out to ffmpeg for local video and audio assembly:
// placeholder clips, logo overlays, and waveform audiograms.
package media
