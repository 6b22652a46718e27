// Package avatar drives a hosted talking-head video service. The video
// pipeline submits a script, polls until rendering finishes, and downloads
// the finished clip.
package avatar
