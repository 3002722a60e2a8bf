package pngdec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Inflater decompresses the concatenated IDAT payload. The decoder treats it
// as opaque: whatever it returns is taken as the filtered scanline stream.
type Inflater interface {
	Inflate(compressed []byte) ([]byte, error)
}

// InflaterFunc adapts a plain function to the Inflater interface.
type InflaterFunc func(compressed []byte) ([]byte, error)

func (f InflaterFunc) Inflate(compressed []byte) ([]byte, error) {
	return f(compressed)
}

// ZlibInflater reads a zlib-framed DEFLATE stream.
type ZlibInflater struct{}

func (ZlibInflater) Inflate(compressed []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, zr); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func inflate(in Inflater, compressed []byte) ([]byte, error) {
	out, err := in.Inflate(compressed)
	if err != nil {
		return nil, &FormatError{Kind: InflateFailure, Err: err}
	}
	return out, nil
}
