package gcs

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrNotGCS = errors.New("not a GCS file")

type Reader struct {
	fileName    string
	num         uint64
	probability uint64
	endOfData   uint64
	index       []indexPair
}

func NewReader(fileName string) *Reader {
	return &Reader{fileName: fileName}
}

// Initialize only loads the database index into memory. This does not load the whole file in RAM.
func (r *Reader) Initialize() error {
	file, err := os.Open(r.fileName)
	if err != nil {
		return err
	}
	defer closeQuietly(file)

	info, err := file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < footerLen {
		return ErrNotGCS
	}

	footer := make([]byte, footerLen)
	if _, err = file.ReadAt(footer, info.Size()-footerLen); err != nil {
		return err
	}
	if string(footer[32:]) != gcsMagic {
		return ErrNotGCS
	}

	r.num = binary.BigEndian.Uint64(footer[0:8])
	r.probability = binary.BigEndian.Uint64(footer[8:16])
	r.endOfData = binary.BigEndian.Uint64(footer[16:24])
	indexLen := binary.BigEndian.Uint64(footer[24:32])
	log.Debug().Msgf("items: %d, probability: %d, end of data: %d, index length: %d",
		r.num, r.probability, r.endOfData, indexLen)

	if r.num == 0 || r.probability < 2 || r.endOfData+indexLen*16+footerLen != uint64(info.Size()) {
		return fmt.Errorf("%w: inconsistent footer", ErrNotGCS)
	}

	raw := make([]byte, indexLen*16)
	if _, err = file.ReadAt(raw, int64(r.endOfData)); err != nil {
		return err
	}

	// index[0] is the start of the data, before any value.
	r.index = make([]indexPair, 0, 1+indexLen)
	r.index = append(r.index, indexPair{0, 0})
	for i := uint64(0); i < indexLen; i++ {
		r.index = append(r.index, indexPair{
			value:  binary.BigEndian.Uint64(raw[i*16 : i*16+8]),
			bitPos: binary.BigEndian.Uint64(raw[i*16+8 : i*16+16]),
		})
	}

	p := message.NewPrinter(language.English)
	log.Info().Msgf("ready for queries on %s items with a 1 in %s false-positive rate",
		p.Sprintf("%d", r.num), p.Sprintf("%d", r.probability))
	return nil
}

// Len is the number of values the set was built from, duplicates included.
func (r *Reader) Len() uint64 {
	return r.num
}

// Probability is the 1-in-p false positive rate of the set.
func (r *Reader) Probability() uint64 {
	return r.probability
}

// Exists reports whether target (a 64 bit hash) is probably in the set.
func (r *Reader) Exists(target uint64) (bool, error) {
	if len(r.index) == 0 {
		return false, errors.New("reader is not initialized")
	}

	// Stored values are shifted by one, see Builder.
	h := target%(r.num*r.probability) + 1

	// Closest index point at or below h.
	i := sort.Search(len(r.index), func(i int) bool { return r.index[i].value > h }) - 1
	entry := r.index[i]
	if entry.value == h {
		return true, nil
	}

	// A file handle per query; concurrent queries never share a read offset.
	file, err := os.Open(r.fileName)
	if err != nil {
		return false, err
	}
	defer closeQuietly(file)

	start := int64(entry.bitPos / 8)
	section := io.NewSectionReader(file, start, int64(r.endOfData)-start)
	decoder := newDecoder(bufio.NewReader(section), r.probability)
	if err = decoder.skip(uint8(entry.bitPos % 8)); err != nil {
		return false, err
	}

	last := entry.value
	for last < h {
		diff, err := decoder.Decode()
		if err != nil {
			return false, err
		}
		// End of data
		if diff == 0 {
			break
		}
		last += diff
	}

	return last == h, nil
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing GCS file")
	}
}
