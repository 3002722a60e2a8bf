package pngdec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

const (
	chunkIHDR = "IHDR"
	chunkIDAT = "IDAT"
	chunkIEND = "IEND"
)

// Chunk is one container record. Data is only filled in for the chunk types
// the decoder consumes; everything else is skipped by length.
type Chunk struct {
	Length uint32
	Type   string
	Data   []byte
	CRC    uint32
}

// Critical reports whether the chunk type starts with an upper case letter.
func (c Chunk) Critical() bool {
	return c.Type != "" && c.Type[0] >= 'A' && c.Type[0] <= 'Z'
}

func consumed(typ string) bool {
	return typ == chunkIHDR || typ == chunkIDAT || typ == chunkIEND
}

func isPNG(data []byte) bool {
	return len(data) >= len(pngSignature) && bytes.Equal(pngSignature, data[:len(pngSignature)])
}

// chunkReader walks a PNG byte buffer one chunk at a time. The cursor is
// owned by the reader; nothing is shared between decode calls.
type chunkReader struct {
	data     []byte
	off      int
	finished bool
}

func newChunkReader(data []byte) (*chunkReader, error) {
	if !isPNG(data) {
		return nil, ErrBadSignature
	}
	return &chunkReader{
		data: data,
		off:  len(pngSignature),
	}, nil
}

// Next returns the next chunk, or io.EOF once IEND was read or the buffer
// ends on a chunk boundary.
func (r *chunkReader) Next() (Chunk, error) {
	if r.finished || r.off >= len(r.data) {
		r.finished = true
		return Chunk{}, io.EOF
	}
	start := r.off
	length, err := r.advance(4)
	if err != nil {
		return Chunk{}, err
	}
	typ, err := r.advance(4)
	if err != nil {
		return Chunk{}, err
	}
	n := binary.BigEndian.Uint32(length)
	if uint64(n) > uint64(len(r.data)-r.off) {
		return Chunk{}, truncated(fmt.Sprintf("chunk %q at offset %d declares %d bytes", typ, start, n))
	}
	payload, err := r.advance(int(n))
	if err != nil {
		return Chunk{}, err
	}
	crc, err := r.advance(4)
	if err != nil {
		return Chunk{}, err
	}

	c := Chunk{
		Length: n,
		Type:   string(typ),
		CRC:    binary.BigEndian.Uint32(crc),
	}
	if consumed(c.Type) {
		c.Data = payload
	}
	if c.Type == chunkIEND {
		r.finished = true
	}
	return c, nil
}

func (r *chunkReader) advance(n int) ([]byte, error) {
	if n > len(r.data)-r.off {
		return nil, truncated(fmt.Sprintf("need %d bytes at offset %d, have %d", n, r.off, len(r.data)-r.off))
	}
	r.off += n
	return r.data[r.off-n : r.off], nil
}

// ReadChunks validates the signature, walks the chunk stream up to IEND and
// returns the header of the first IHDR together with the concatenated IDAT
// payload.
func ReadChunks(data []byte) (Header, []byte, error) {
	r, err := newChunkReader(data)
	if err != nil {
		return Header{}, nil, err
	}

	var (
		hdr     Header
		haveHdr bool
		idat    []byte
	)
	for {
		c, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Header{}, nil, err
		}
		switch c.Type {
		case chunkIHDR:
			if haveHdr {
				continue
			}
			if hdr, err = parseIHDR(c.Data); err != nil {
				return Header{}, nil, err
			}
			haveHdr = true
		case chunkIDAT:
			idat = append(idat, c.Data...)
		}
	}

	if err := hdr.Validate(); err != nil {
		return Header{}, nil, err
	}
	return hdr, idat, nil
}

// ReadHeader returns the first IHDR of data without checking that the
// decoder supports it, so palette or 16-bit files can still be inspected.
// A stream without IHDR is Truncated.
func ReadHeader(data []byte) (Header, error) {
	r, err := newChunkReader(data)
	if err != nil {
		return Header{}, err
	}
	for {
		c, err := r.Next()
		if err == io.EOF {
			return Header{}, truncated("no IHDR chunk")
		}
		if err != nil {
			return Header{}, err
		}
		if c.Type == chunkIHDR {
			return parseIHDR(c.Data)
		}
	}
}

// ListChunks returns every chunk up to and including IEND. Only IHDR, IDAT
// and IEND carry their payload.
func ListChunks(data []byte) ([]Chunk, error) {
	r, err := newChunkReader(data)
	if err != nil {
		return nil, err
	}
	var chunks []Chunk
	for {
		c, err := r.Next()
		if err == io.EOF {
			return chunks, nil
		}
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, c)
	}
}
