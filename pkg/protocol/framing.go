package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	// MaxOutgoingFrame is the largest message the host accepts from us.
	MaxOutgoingFrame = 64 << 20

	// MaxIncomingFrame is the largest message we accept from the host.
	MaxIncomingFrame = 1 << 20
)

var (
	// ErrFrameTooLarge is returned when a frame exceeds its direction's limit.
	ErrFrameTooLarge = errors.New("native message exceeds size limit")

	// ErrShortFrame is returned when the stream ends inside a frame.
	ErrShortFrame = errors.New("native message truncated")
)

// WriteFrame encodes v as JSON and writes it as one length-prefixed frame.
func WriteFrame(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	if len(payload) > MaxOutgoingFrame {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}

	buf := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(payload)))
	copy(buf[4:], payload)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame and returns its raw JSON payload.
// io.EOF is returned unchanged when the stream ends cleanly between frames.
func ReadFrame(r io.Reader, limit int) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortFrame
		}
		return nil, err
	}

	size := binary.LittleEndian.Uint32(header[:])
	if limit > 0 && int64(size) > int64(limit) {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortFrame
		}
		return nil, err
	}
	return payload, nil
}

// ReadMessage reads one frame and decodes it into v.
func ReadMessage(r io.Reader, limit int, v any) error {
	payload, err := ReadFrame(r, limit)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}
	return nil
}
