// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties including bit depth
//   - Format: container-level metadata and tags
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// Helper methods on Result expose the first audio stream, the container
// creation time, and the GPS location tag that phones write into videos.
package ffprobe
