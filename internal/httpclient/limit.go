package httpclient

import (
	"errors"
	"fmt"
	"io"
)

// BodyTooLargeError reports a response body over the caller's cap.
type BodyTooLargeError struct {
	Limit int64
}

func (e *BodyTooLargeError) Error() string {
	return fmt.Sprintf("response body larger than %d bytes", e.Limit)
}

// IsBodyTooLarge reports whether err came from an over-limit read.
func IsBodyTooLarge(err error) bool {
	var tooLarge *BodyTooLargeError
	return errors.As(err, &tooLarge)
}

// ReadAllWithLimit drains r up to limit bytes; a limit of zero or less
// reads everything. It reads one byte past the cap so an exactly-full
// body is not mistaken for an oversized one.
func ReadAllWithLimit(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	switch {
	case err != nil:
		return nil, fmt.Errorf("read body: %w", err)
	case int64(len(data)) > limit:
		return nil, &BodyTooLargeError{Limit: limit}
	}
	return data, nil
}
