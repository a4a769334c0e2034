package defs

import "time"

// Protocol constants
const (
	// Message types
	MsgCores  = "COR"
	MsgDigest = "MD5"
	MsgRange  = "RNG"
	MsgResult = "RES"
	MsgError  = "ERR"

	TagSize   = 3
	Separator = '|'

	// MaxPayloadSize bounds the declared length of a single frame.
	MaxPayloadSize = 1 << 20

	// Payload sentinels
	StopSentinel     = "STOP"
	NotFoundSentinel = "NOT FOUND"
	RangeSeparator   = "-"

	// Error texts sent with ERR
	ErrTextExpectedCores  = "ERROR: Expected COR"
	ErrTextExpectedResult = "ERROR: Expected RES"
	ErrTextInvalidCores   = "ERROR: Invalid core count"
	ErrTextInvalidResult  = "RESULT NOT VALID"

	// Configuration constants
	ConnectionRetryDelay = 1 * time.Second
)

// Session timeouts
const (
	// WriteTimeout bounds a single frame write so a stuck worker cannot stall a broadcast
	WriteTimeout = 10 * time.Second
)
