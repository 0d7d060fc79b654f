package service

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// ReferenceGenerator produces project and reference numbers for new requests.
// It is injectable so tests can use a deterministic implementation instead of
// wall-clock-derived values.
type ReferenceGenerator interface {
	ProjectNumber() string
	RefNumber() string
}

type timestampRefGenerator struct{}

// NewReferenceGenerator returns the default timestamp-plus-random generator.
// Formats follow the ADFD numbering scheme: ADFD-<ts6>-<rnd3> and
// REF-<year>-<ts4>.
func NewReferenceGenerator() ReferenceGenerator {
	return timestampRefGenerator{}
}

func (timestampRefGenerator) ProjectNumber() string {
	ts := time.Now().UnixMilli()
	return fmt.Sprintf("ADFD-%06d-%03d", ts%1000000, rand.IntN(1000))
}

func (timestampRefGenerator) RefNumber() string {
	ts := time.Now().UnixMilli()
	return fmt.Sprintf("REF-%d-%04d", time.Now().Year(), ts%10000)
}
