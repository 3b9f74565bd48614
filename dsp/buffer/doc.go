// Package buffer provides a channel-aware sample buffer, interleaving and
// PCM conversion helpers.
// DSP functions accept raw []float64 slices; Buffer tags them with a
// channel count and sample rate so that frame arithmetic can be checked.
package buffer
