// Package wire implements the length-prefixed ASCII framing used on every
// client/server connection: a 3-digit decimal payload length followed by that
// many payload bytes, e.g. "005ready". It performs no I/O itself; callers feed
// it bytes as they arrive and drain it for bytes to send.
package wire

import "fmt"

// HeaderSize is the fixed width of the ASCII length prefix.
const HeaderSize = 3

// MaxPayload is the largest payload a single frame may carry.
const MaxPayload = 999

// Encode renders payload as a complete frame: a zero-padded 3-digit length
// header followed by payload. It errors if payload exceeds MaxPayload.
func Encode(payload string) (string, error) {
	if len(payload) > MaxPayload {
		return "", fmt.Errorf("payload too large: %v bytes (max %v)", len(payload), MaxPayload)
	}
	return fmt.Sprintf("%03d%v", len(payload), payload), nil
}
