package stream

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsatisfiable is returned for a malformed or out-of-bounds Range header.
// It maps to HTTP 416.
var ErrUnsatisfiable = errors.New("range not satisfiable")

const bytesPrefix = "bytes="

// ByteRange is an inclusive [Start, End] byte interval within a file.
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes covered by the range.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the Content-Range header value for a file of the given size.
func (r ByteRange) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// ParseRange parses a Range request header against a file of the given size.
//
// Returns (nil, nil) when the header is absent, a *ByteRange when a single
// satisfiable range was requested, and ErrUnsatisfiable otherwise. Only one
// range of the form "bytes=start-end" is accepted; "bytes=start-" runs to
// EOF. Suffix ranges ("bytes=-500") and multi-range lists are rejected.
func ParseRange(header string, size int64) (*ByteRange, error) {
	if header == "" {
		return nil, nil
	}
	if !strings.HasPrefix(header, bytesPrefix) {
		return nil, ErrUnsatisfiable
	}

	spec := strings.TrimSpace(strings.TrimPrefix(header, bytesPrefix))
	startPart, endPart, found := strings.Cut(spec, "-")
	if !found {
		return nil, ErrUnsatisfiable
	}

	if startPart == "" {
		// A missing start would make "bytes=-N" mean "first N+1 bytes"
		// here instead of the RFC's "last N bytes"; reject it rather
		// than silently change meaning.
		return nil, ErrUnsatisfiable
	}

	start, err := strconv.ParseInt(strings.TrimSpace(startPart), 10, 64)
	if err != nil || start < 0 {
		return nil, ErrUnsatisfiable
	}

	end := size - 1
	if endPart != "" {
		// A comma in the end part means a multi-range list; ParseInt
		// rejects it along with everything else non-numeric.
		end, err = strconv.ParseInt(strings.TrimSpace(endPart), 10, 64)
		if err != nil || end < 0 {
			return nil, ErrUnsatisfiable
		}
	}

	if start >= size || end >= size || start > end {
		return nil, ErrUnsatisfiable
	}

	return &ByteRange{Start: start, End: end}, nil
}
