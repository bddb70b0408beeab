// Package eventid generates opaque, probably-unique event identifiers.
package eventid

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Prefix tags every identifier.
	Prefix = "evt_"

	suffixLen = 5
	// suffixSpace is 36^5, the number of distinct 5-char base-36 suffixes.
	suffixSpace = 36 * 36 * 36 * 36 * 36
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithEntropy overrides the random source used for the suffix.
func WithEntropy(rnd func() uint64) Option {
	return func(g *Generator) {
		if rnd != nil {
			g.rnd = rnd
		}
	}
}

// Generator builds identifiers of the form evt_<base36 ms>_<5 base36 chars>.
// Uniqueness is not enforced; collisions are accepted as negligible.
type Generator struct {
	now func() time.Time
	rnd func() uint64
}

// NewGenerator creates a Generator backed by the wall clock and v4 UUID bits.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		now: time.Now,
		rnd: uuidEntropy,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a new identifier.
func (g *Generator) Generate() string {
	ms := g.now().UnixMilli()
	suffix := strconv.FormatUint(g.rnd()%suffixSpace, 36)

	var sb strings.Builder
	sb.Grow(len(Prefix) + 12 + suffixLen)
	sb.WriteString(Prefix)
	sb.WriteString(strconv.FormatInt(ms, 36))
	sb.WriteByte('_')
	sb.WriteString(strings.Repeat("0", suffixLen-len(suffix)))
	sb.WriteString(suffix)
	return sb.String()
}

// uuidEntropy takes the low eight bytes of a random UUID; they carry no
// version or variant bits.
func uuidEntropy() uint64 {
	u := uuid.New()
	return binary.BigEndian.Uint64(u[8:])
}
