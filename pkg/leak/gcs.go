package leak

import (
	"fmt"

	"github.com/alvinbaena/pwd-analyzer/pkg/gcs"
	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"
)

// GCSCorpus looks passwords up in a Golomb coded set file built from SHA1
// hashes, such as the Pwned Passwords dump. Membership is probabilistic: a
// password not in the set is reported leaked with a 1-in-P chance.
type GCSCorpus struct {
	reader *gcs.Reader
	cache  *ristretto.Cache
}

// OpenGCS loads the index of fileName. cacheSize bounds how many lookup
// results are kept in memory, 0 disables the cache.
func OpenGCS(fileName string, cacheSize int64) (*GCSCorpus, error) {
	reader := gcs.NewReader(fileName)
	if err := reader.Initialize(); err != nil {
		return nil, err
	}

	c := &GCSCorpus{reader: reader}
	if cacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: cacheSize * 10,
			MaxCost:     cacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, err
		}
		c.cache = cache
	}

	return c, nil
}

// Lookup reports whether password is probably in the set. Read errors are
// returned and never cached.
func (c *GCSCorpus) Lookup(password string) (bool, error) {
	h := gcs.Hash(password)

	if c.cache != nil {
		if v, ok := c.cache.Get(h); ok {
			return v.(bool), nil
		}
	}

	exists, err := c.reader.Exists(h)
	if err != nil {
		return false, fmt.Errorf("query GCS database: %w", err)
	}

	if c.cache != nil {
		c.cache.Set(h, exists, 1)
	}
	return exists, nil
}

// Contains reports lookup errors as not leaked, after logging them. The
// analyzer calls Lookup instead.
func (c *GCSCorpus) Contains(password string) bool {
	exists, err := c.Lookup(password)
	if err != nil {
		log.Error().Err(err).Msg("error querying GCS database")
		return false
	}
	return exists
}

// Len is the number of hashes the set was built from.
func (c *GCSCorpus) Len() uint64 {
	return c.reader.Len()
}

func (c *GCSCorpus) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}
