package client

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/augustosalazar/roble-go/schema"
)

const (
	seedNamePrefix        = "Product-"
	seedDescriptionPrefix = "Description "
	seedNameSuffixLen     = 8
	seedDescSuffixLen     = 16
	seedMaxQuantity       = 100

	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// SeedRandom inserts count synthetic records with randomized name,
// description and quantity, one insert per record. It aborts on the first
// failed insert and returns the names generated so far plus the failure.
func (s *Service) SeedRandom(ctx context.Context, count int) ([]string, error) {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	var names []string
	for i := 0; i < count; i++ {
		name := seedNamePrefix + randomSuffix(rnd, seedNameSuffixLen)
		record := schema.Record{
			"name":        name,
			"description": seedDescriptionPrefix + randomSuffix(rnd, seedDescSuffixLen),
			"quantity":    rnd.Intn(seedMaxQuantity) + 1,
		}
		if err := s.Insert(ctx, record); err != nil {
			return names, fmt.Errorf("seed aborted after %v of %v inserts: %w", i, count, err)
		}
		names = append(names, name)
	}
	return names, nil
}

func randomSuffix(rnd *rand.Rand, length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphanumeric[rnd.Intn(len(alphanumeric))]
	}
	return string(buf)
}
