package codec

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/hashsearch.net/internal/static/errs"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
)

func TestEncode(t *testing.T) {
	frame, err := Encode(defs.MsgCores, []byte("4"))
	require.NoError(t, err)
	assert.Equal(t, "COR1|4", string(frame))

	frame, err = Encode(defs.MsgResult, []byte(defs.NotFoundSentinel))
	require.NoError(t, err)
	assert.Equal(t, "RES9|NOT FOUND", string(frame))

	frame, err = Encode(defs.MsgRange, nil)
	require.NoError(t, err)
	assert.Equal(t, "RNG0|", string(frame))
}

func TestEncodeRejectsBadTag(t *testing.T) {
	for _, tag := range []string{"", "RN", "RANGE"} {
		_, err := Encode(tag, []byte("x"))
		assert.ErrorIs(t, err, errs.ErrInvalidTag, "tag %q", tag)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		msgType string
		payload []byte
	}{
		{"digest", defs.MsgDigest, []byte("827ccb0eea8a706c4c34a16891f84e7b")},
		{"range", defs.MsgRange, []byte("10000-11000")},
		{"empty payload", defs.MsgResult, []byte{}},
		{"digits only", defs.MsgResult, []byte("12345")},
		{"separator inside", defs.MsgError, []byte("a|b||c|")},
		{"looks like a frame", defs.MsgResult, []byte("RNG5|STOP|COR1|9")},
		{"binary", "XYZ", []byte{0x00, 0xff, '|', '7', '\n'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteMessage(&buf, tt.msgType, tt.payload))

			msg, err := NewDecoder(&buf).ReadMessage()
			require.NoError(t, err)
			assert.Equal(t, tt.msgType, msg.Type)
			assert.Equal(t, tt.payload, msg.Payload)
		})
	}
}

func TestDecoderReadsConsecutiveFrames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, defs.MsgDigest, []byte("abc")))
	require.NoError(t, WriteMessage(&buf, defs.MsgRange, []byte("1-2")))
	require.NoError(t, WriteMessage(&buf, defs.MsgRange, []byte(defs.StopSentinel)))

	dec := NewDecoder(&buf)
	for _, want := range []Message{
		{Type: defs.MsgDigest, Payload: []byte("abc")},
		{Type: defs.MsgRange, Payload: []byte("1-2")},
		{Type: defs.MsgRange, Payload: []byte("STOP")},
	} {
		msg, err := dec.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, want, msg)
	}

	_, err := dec.ReadMessage()
	assert.ErrorIs(t, err, errs.ErrConnection)
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoderLeadingZeroLength(t *testing.T) {
	msg, err := NewDecoder(bytes.NewBufferString("RES003|abc")).ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "abc", msg.Text())
}

func TestDecoderFramingErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"letter in length", "COR1a|4"},
		{"negative length", "COR-1|4"},
		{"empty length", "COR|4"},
		{"space in length", "RNG 5|10-20"},
		{"oversized", "RES99999999|x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoder(bytes.NewBufferString(tt.input)).ReadMessage()
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrFraming)
			assert.False(t, errors.Is(err, errs.ErrConnection))
		})
	}
}

func TestDecoderConnectionErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cause error
	}{
		{"nothing", "", io.EOF},
		{"partial tag", "CO", io.ErrUnexpectedEOF},
		{"missing delimiter", "COR12", io.EOF},
		{"short payload", "RES10|12345", io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoder(bytes.NewBufferString(tt.input)).ReadMessage()
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrConnection)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestDecoderOverPipe(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		// one byte at a time to exercise partial reads
		frame, _ := Encode(defs.MsgRange, []byte("10000-11000"))
		for _, b := range frame {
			_, _ = client.Write([]byte{b})
		}
		_ = client.Close()
	}()

	dec := NewDecoder(server)
	msg, err := dec.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, defs.MsgRange, msg.Type)
	assert.Equal(t, "10000-11000", msg.Text())

	_, err = dec.ReadMessage()
	assert.ErrorIs(t, err, errs.ErrConnection)
}
