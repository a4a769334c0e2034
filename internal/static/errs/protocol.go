package errs

import "errors"

// Wire and session errors.
var (
	// ErrFraming indicates a malformed length prefix or a corrupted stream.
	ErrFraming = errors.New("framing error")

	// ErrConnection indicates the peer went away or an I/O call failed mid-exchange.
	ErrConnection = errors.New("connection error")

	// ErrProtocol indicates a message tag that is not valid for the session state.
	ErrProtocol = errors.New("protocol error")

	// ErrInvalidTag indicates a message type that is not exactly three bytes.
	ErrInvalidTag = errors.New("message type must be exactly 3 bytes")

	// ErrRemote indicates the peer sent an ERR message.
	ErrRemote = errors.New("peer reported an error")
)

// Search errors.
var (
	// ErrExhausted is returned when the next fresh range would start above the ceiling.
	ErrExhausted = errors.New("search space exhausted")

	// ErrInvalidResult indicates a RES payload that fails candidate validation.
	ErrInvalidResult = errors.New("result not valid")

	ErrInvalidCores  = errors.New("core count must be a positive integer")
	ErrInvalidRange  = errors.New("invalid range")
	ErrInvalidConfig = errors.New("invalid configuration")
)

var ErrUnknownDigest = errors.New("unknown digest algorithm")
