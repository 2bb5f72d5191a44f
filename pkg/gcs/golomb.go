package gcs

import (
	"io"
	"math"
)

// Golomb-Rice coding: the quotient v/p in unary (q ones and a zero), the
// remainder in ceil(log2(p)) bits.

func remainderBits(probability uint64) uint8 {
	return uint8(math.Ceil(math.Log2(float64(probability))))
}

type golombEncoder struct {
	inner       *bitWriter
	probability uint64
	log2p       uint8
}

func newEncoder(w io.Writer, probability uint64) *golombEncoder {
	return &golombEncoder{
		inner:       newBitWriter(w),
		probability: probability,
		log2p:       remainderBits(probability),
	}
}

// Encode writes value and returns the number of bits used.
func (e *golombEncoder) Encode(value uint64) (uint64, error) {
	q := value / e.probability
	r := value % e.probability
	written := q + 1 + uint64(e.log2p)

	for q >= 64 {
		if err := e.inner.WriteBits(64, math.MaxUint64); err != nil {
			return 0, err
		}
		q -= 64
	}
	// q ones followed by the terminating zero
	if err := e.inner.WriteBits(uint8(q+1), (1<<q-1)<<1); err != nil {
		return 0, err
	}

	if err := e.inner.WriteBits(e.log2p, r); err != nil {
		return 0, err
	}

	return written, nil
}

// Finalize flushes pending bits and returns the padding written.
func (e *golombEncoder) Finalize() (uint64, error) {
	return e.inner.Flush()
}

type golombDecoder struct {
	inner       *bitReader
	probability uint64
	log2p       uint8
}

func newDecoder(r io.ByteReader, probability uint64) *golombDecoder {
	return &golombDecoder{
		inner:       newBitReader(r),
		probability: probability,
		log2p:       remainderBits(probability),
	}
}

// skip discards n bits, used to land on an index point inside a byte.
func (d *golombDecoder) skip(n uint8) error {
	_, err := d.inner.ReadBits(n)
	return err
}

func (d *golombDecoder) Decode() (uint64, error) {
	value := uint64(0)
	for {
		bit, err := d.inner.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			break
		}
		value += d.probability
	}

	r, err := d.inner.ReadBits(d.log2p)
	if err != nil {
		return 0, err
	}

	return value + r, nil
}
