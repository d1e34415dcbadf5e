package stream

import (
	"fmt"
	"io"
)

// DefaultChunkSize is the read granularity for streamed responses.
const DefaultChunkSize = 8192

// ChunkReader yields fixed-size chunks covering exactly [start, start+length)
// of a seekable source. It is a single-pass, forward-only reader: the source
// is seeked once at construction and is exclusively owned by the reader until
// the caller is done with it. A short read (truncated source) ends the
// sequence early rather than failing.
type ChunkReader struct {
	src       io.Reader
	remaining int64
	buf       []byte
}

// NewChunkReader seeks src to start and returns a reader covering length
// bytes in chunks of at most chunkSize. chunkSize <= 0 selects
// DefaultChunkSize.
func NewChunkReader(src io.ReadSeeker, start, length int64, chunkSize int) (*ChunkReader, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to offset %d: %w", start, err)
	}
	return &ChunkReader{
		src:       src,
		remaining: length,
		buf:       make([]byte, chunkSize),
	}, nil
}

// Next returns the next chunk, valid until the following call. It returns
// io.EOF when the interval is exhausted or the source ends early.
func (c *ChunkReader) Next() ([]byte, error) {
	if c.remaining <= 0 {
		return nil, io.EOF
	}

	want := int64(len(c.buf))
	if c.remaining < want {
		want = c.remaining
	}

	n, err := io.ReadFull(c.src, c.buf[:want])
	if n > 0 {
		c.remaining -= int64(n)
		return c.buf[:n], nil
	}
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		// Source shorter than expected; end the sequence quietly.
		c.remaining = 0
		return nil, io.EOF
	}
	return nil, err
}

// WriteTo streams all remaining chunks to w, flushing after each chunk when
// w supports it. It returns the number of bytes written; an error from the
// source or the writer ends the stream.
func (c *ChunkReader) WriteTo(w io.Writer) (int64, error) {
	flusher, _ := w.(interface{ Flush() })

	var written int64
	for {
		chunk, err := c.Next()
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}

		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}
