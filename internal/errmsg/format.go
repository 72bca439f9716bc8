// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpPlaybackPause  Op = "pause playback"
	OpPlaybackResume Op = "resume playback"
	OpPlaybackStop   Op = "stop playback"
	OpPlaybackSeek   Op = "seek"
	OpPlaybackVolume Op = "change volume"
	OpPlayback       Op = "control playback"

	// Image operations
	OpCoverExtract Op = "extract cover art"
	OpImageDecode  Op = "decode image"
	OpImageDisplay Op = "display image"
	OpImageWrite   Op = "write image"

	// File operations
	OpFileLoad   Op = "load file"
	OpFolderScan Op = "scan folder"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// playbackOps maps playback error event operation names to Ops.
var playbackOps = map[string]Op{
	"play":   OpPlaybackStart,
	"pause":  OpPlaybackPause,
	"resume": OpPlaybackResume,
	"toggle": OpPlaybackResume,
	"stop":   OpPlaybackStop,
	"seek":   OpPlaybackSeek,
	"volume": OpPlaybackVolume,
}

// PlaybackOp returns the Op for a playback operation name.
func PlaybackOp(name string) Op {
	if op, ok := playbackOps[name]; ok {
		return op
	}
	return OpPlayback
}

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
