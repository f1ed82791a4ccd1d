package popover

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator produces process-unique element ids.
type IDGenerator interface {
	NewID() string
}

// ULIDGenerator generates prefixed, lowercase ULIDs.
type ULIDGenerator struct {
	prefix   string
	fallback atomic.Uint64
}

// NewULIDGenerator creates a generator whose ids start with prefix.
func NewULIDGenerator(prefix string) *ULIDGenerator {
	return &ULIDGenerator{prefix: prefix}
}

// NewID returns a new id such as "popover-content-01j9...".
func (g *ULIDGenerator) NewID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return fmt.Sprintf("%s-%d", g.prefix, g.fallback.Add(1))
	}
	return g.prefix + "-" + strings.ToLower(id.String())
}

// SequenceGenerator generates "<prefix>-1", "<prefix>-2", ... and is meant
// for tests and deterministic markup.
type SequenceGenerator struct {
	prefix string
	n      atomic.Uint64
}

// NewSequenceGenerator creates a sequence generator.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// NewID returns the next id in the sequence.
func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))
}
