package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func TestChunkReaderCoversExactInterval(t *testing.T) {
	data := testData(20000)
	reader, err := NewChunkReader(bytes.NewReader(data), 500, 10000, 0)
	require.NoError(t, err)

	var got []byte
	chunks := 0
	for {
		chunk, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, chunk...)
		chunks++
	}

	assert.Equal(t, data[500:10500], got)
	// 10000 bytes at the default chunk size: one full chunk plus a remainder.
	assert.Equal(t, 2, chunks)
}

func TestChunkReaderChunkSizing(t *testing.T) {
	data := testData(1000)
	reader, err := NewChunkReader(bytes.NewReader(data), 0, 1000, 300)
	require.NoError(t, err)

	var sizes []int
	for {
		chunk, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		sizes = append(sizes, len(chunk))
	}
	assert.Equal(t, []int{300, 300, 300, 100}, sizes)
}

func TestChunkReaderShortSource(t *testing.T) {
	// Source holds fewer bytes than requested; the stream ends quietly.
	data := testData(100)
	reader, err := NewChunkReader(bytes.NewReader(data), 50, 500, 0)
	require.NoError(t, err)

	chunk, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, data[50:], chunk)

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestChunkReaderZeroLength(t *testing.T) {
	reader, err := NewChunkReader(bytes.NewReader(testData(100)), 0, 0, 0)
	require.NoError(t, err)

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestChunkReaderWriteTo(t *testing.T) {
	data := testData(25000)
	reader, err := NewChunkReader(bytes.NewReader(data), 1000, 20000, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	written, err := reader.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), written)
	assert.Equal(t, data[1000:21000], buf.Bytes())
}
