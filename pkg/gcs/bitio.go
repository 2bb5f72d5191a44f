package gcs

import (
	"bufio"
	"errors"
	"io"
)

var errTooManyBits = errors.New("cannot transfer more than 64 bits at a time")

// bitReader reads a stream MSB first, one byte at a time from the inner
// reader.
type bitReader struct {
	inner io.ByteReader
	cur   byte
	left  uint8 // unread bits in cur
}

func newBitReader(r io.ByteReader) *bitReader {
	return &bitReader{inner: r}
}

// ReadBit reads a single bit from the reader.
func (r *bitReader) ReadBit() (uint64, error) {
	return r.ReadBits(1)
}

// ReadBits reads up to 64 bits from the reader.
func (r *bitReader) ReadBits(n uint8) (uint64, error) {
	if n > 64 {
		return 0, errTooManyBits
	}

	ret := uint64(0)
	for n > 0 {
		if r.left == 0 {
			b, err := r.inner.ReadByte()
			if err != nil {
				return 0, err
			}
			r.cur, r.left = b, 8
		}

		take := min(r.left, n)
		chunk := uint64(r.cur>>(r.left-take)) & (1<<take - 1)
		ret = ret<<take | chunk
		r.left -= take
		n -= take
	}

	return ret, nil
}

// bitWriter adds bit-level writing to any io.Writer. Bits are buffered until
// a full byte is available.
type bitWriter struct {
	inner  *bufio.Writer
	buffer uint8 // pending bits, left aligned
	used   uint8 // number of pending bits in buffer
}

func newBitWriter(out io.Writer) *bitWriter {
	return &bitWriter{inner: bufio.NewWriter(out)}
}

// WriteBits writes the n lowest bits of v, most significant first.
func (w *bitWriter) WriteBits(n uint8, v uint64) error {
	if n > 64 {
		return errTooManyBits
	}

	for n > 0 {
		free := 8 - w.used
		take := min(free, n)
		chunk := uint8((v >> (n - take)) & (1<<take - 1))
		w.buffer |= chunk << (free - take)
		w.used += take
		n -= take

		if w.used == 8 {
			if err := w.inner.WriteByte(w.buffer); err != nil {
				return err
			}
			w.buffer, w.used = 0, 0
		}
	}

	return nil
}

// Flush pads the stream with zero bits up to the next byte boundary, flushes
// the inner writer and returns the number of padding bits.
func (w *bitWriter) Flush() (uint64, error) {
	padding := uint64(0)
	if w.used > 0 {
		if err := w.inner.WriteByte(w.buffer); err != nil {
			return 0, err
		}
		padding = uint64(8 - w.used)
		w.buffer, w.used = 0, 0
	}

	return padding, w.inner.Flush()
}
