package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

var (
	ErrCorrupt          = errors.New("compress: corrupt or short stream")
	ErrUnknownAlgorithm = errors.New("compress: unknown algorithm")
)

const AlgorithmGZIP uint8 = 0

// Codec compresses whole blocks. Decompress is bounded by the original
// length the envelope carries instead of reading to EOF.
type Codec interface {
	ID() uint8
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte, length int) ([]byte, error)
}

var Registry = map[uint8]Codec{
	AlgorithmGZIP: gzipCodec{},
}

// ByID returns the codec registered for an envelope algorithm byte.
func ByID(id uint8) (Codec, error) {
	c, ok := Registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownAlgorithm, id)
	}
	return c, nil
}

// Compress gzips data.
func Compress(data []byte) ([]byte, error) {
	return gzipCodec{}.Compress(data)
}

// Decompress inflates exactly length bytes from a gzip stream.
func Decompress(data []byte, length int) ([]byte, error) {
	return gzipCodec{}.Decompress(data, length)
}

type gzipCodec struct{}

func (gzipCodec) ID() uint8 {
	return AlgorithmGZIP
}

func (gzipCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gzipCodec) Decompress(data []byte, length int) ([]byte, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrCorrupt, length)
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer r.Close()

	out := make([]byte, length)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return out, nil
}
