package wire

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	frame, err := Encode("ready")
	require.NoError(t, err)
	assert.Equal(t, "005ready", frame)
}

func TestEncodeEmptyPayload(t *testing.T) {
	frame, err := Encode("")
	require.NoError(t, err)
	assert.Equal(t, "000", frame)
}

func TestEncodeRejectsOversizePayload(t *testing.T) {
	_, err := Encode(strings.Repeat("x", MaxPayload+1))
	assert.Error(t, err)
}

func TestDecoderWholeFrameAtOnce(t *testing.T) {
	d := NewDecoder()
	msgs, err := d.Feed([]byte("005ready"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ready"}, msgs)
}

func TestDecoderByteAtATime(t *testing.T) {
	d := NewDecoder()

	var got []string
	for _, b := range []byte("004e2e4") {
		msgs, err := d.Feed([]byte{b})
		require.NoError(t, err)
		got = append(got, msgs...)
	}
	assert.Equal(t, []string{"e2e4"}, got)
}

func TestDecoderMultipleFramesAcrossChunks(t *testing.T) {
	d := NewDecoder()
	var got []string

	for _, chunk := range []string{"005rea", "dy004e", "2e4"} {
		msgs, err := d.Feed([]byte(chunk))
		require.NoError(t, err)
		got = append(got, msgs...)
	}
	assert.Equal(t, []string{"ready", "e2e4"}, got)
}

func TestDecoderRejectsNonDigitHeader(t *testing.T) {
	d := NewDecoder()
	_, err := d.Feed([]byte("0a5ready"))
	assert.Error(t, err)
}

func TestDecoderRoundTripsThroughEncode(t *testing.T) {
	frame, err := Encode("moves e2e3e4")
	require.NoError(t, err)

	d := NewDecoder()
	msgs, err := d.Feed([]byte(frame))
	require.NoError(t, err)
	assert.Equal(t, []string{"moves e2e3e4"}, msgs)
}

func TestSendBufferEnqueueAndDrain(t *testing.T) {
	var s SendBuffer
	require.NoError(t, s.Enqueue("ok"))
	require.NoError(t, s.Enqueue("e2e4"))
	assert.True(t, s.Pending())

	var out bytes.Buffer
	n, err := s.Drain(&out)
	require.NoError(t, err)
	assert.Equal(t, s.Len(), 0)
	assert.Equal(t, n, out.Len())
	assert.False(t, s.Pending())
	assert.Equal(t, "002ok004e2e4", out.String())
}

type shortWriter struct {
	max int
}

func (w shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.max {
		p = p[:w.max]
	}
	return len(p), nil
}

func TestSendBufferPartialDrainKeepsRemainder(t *testing.T) {
	var s SendBuffer
	require.NoError(t, s.Enqueue("ready"))

	n, err := s.Drain(shortWriter{max: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.True(t, s.Pending())
	assert.Equal(t, 4, s.Len())
}
