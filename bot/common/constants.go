package common

import "time"

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
)

// Command limits
const (
	// CommandTimeout bounds one slash command from download to reply
	CommandTimeout = 3 * time.Minute

	// MaxAttachmentBytes is the largest upload accepted
	MaxAttachmentBytes = 25 << 20
)

// Embed limits imposed by Discord
const (
	MaxFieldValueLength = 1024
	MaxEmbedFields      = 25
	MaxEmbedLength      = 6000
	PreviewRows         = 5
)
