// Package codec implements the length-prefixed frame format spoken between
// the coordinator and its workers:
//
//	TAG{3 bytes} LEN{decimal digits} '|' PAYLOAD{LEN bytes}
//
// Payloads are never escaped; the length prefix makes them opaque.
package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"gitlab.com/hashsearch.net/internal/static/errs"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
)

// Message is a single decoded frame.
type Message struct {
	Type    string
	Payload []byte
}

// Text returns the payload as a string.
func (m Message) Text() string {
	return string(m.Payload)
}

// Encode builds the wire form of a message.
func Encode(msgType string, payload []byte) ([]byte, error) {
	if len(msgType) != defs.TagSize {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidTag, msgType)
	}

	length := strconv.Itoa(len(payload))
	frame := make([]byte, 0, defs.TagSize+len(length)+1+len(payload))
	frame = append(frame, msgType...)
	frame = append(frame, length...)
	frame = append(frame, defs.Separator)
	frame = append(frame, payload...)
	return frame, nil
}

// WriteMessage writes one frame with a single Write call.
func WriteMessage(w io.Writer, msgType string, payload []byte) error {
	frame, err := Encode(msgType, payload)
	if err != nil {
		return err
	}

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("%w: failed to write %s message: %w", errs.ErrConnection, msgType, err)
	}
	return nil
}

type parseState int

const (
	stateTag parseState = iota
	stateLength
	statePayload
)

func (s parseState) String() string {
	switch s {
	case stateTag:
		return "type"
	case stateLength:
		return "length"
	case statePayload:
		return "payload"
	default:
		return "unknown"
	}
}

// Decoder reads frames from a byte stream. A connection must use a single
// Decoder for its whole lifetime since it buffers reads.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder creates a decoder over r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// ReadMessage blocks until a complete frame has been read.
//
// Malformed length prefixes fail with errs.ErrFraming. Any read failure,
// including a clean EOF before the first byte, fails with errs.ErrConnection
// wrapping the underlying error.
func (d *Decoder) ReadMessage() (Message, error) {
	var (
		state  = stateTag
		tag    [defs.TagSize]byte
		length int
		digits int
		msg    Message
	)

	for {
		switch state {
		case stateTag:
			if _, err := io.ReadFull(d.r, tag[:]); err != nil {
				return Message{}, readError(state, err)
			}
			msg.Type = string(tag[:])
			state = stateLength

		case stateLength:
			b, err := d.r.ReadByte()
			if err != nil {
				return Message{}, readError(state, err)
			}
			if b == defs.Separator {
				if digits == 0 {
					return Message{}, fmt.Errorf("%w: empty length for %s message", errs.ErrFraming, msg.Type)
				}
				state = statePayload
				continue
			}
			if b < '0' || b > '9' {
				return Message{}, fmt.Errorf("%w: invalid length character %q for %s message", errs.ErrFraming, b, msg.Type)
			}
			length = length*10 + int(b-'0')
			digits++
			if length > defs.MaxPayloadSize {
				return Message{}, fmt.Errorf("%w: %s message exceeds %d bytes", errs.ErrFraming, msg.Type, defs.MaxPayloadSize)
			}

		case statePayload:
			msg.Payload = make([]byte, length)
			if _, err := io.ReadFull(d.r, msg.Payload); err != nil {
				return Message{}, readError(state, err)
			}
			return msg, nil
		}
	}
}

func readError(state parseState, err error) error {
	return fmt.Errorf("%w: failed to read message %s: %w", errs.ErrConnection, state, err)
}
