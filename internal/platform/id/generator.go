package id

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Generator creates opaque IDs for ingestion runs.
type Generator interface {
	NewID() (string, error)
}

// RunIDGenerator yields ids like "run_20261018T023900Z_3f9a1c2e5b7d8a90" that
// sort by creation time.
type RunIDGenerator struct {
	prefix string
	now    func() time.Time
}

func NewRunIDGenerator(prefix string) *RunIDGenerator {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "run"
	}
	return &RunIDGenerator{prefix: prefix, now: time.Now}
}

func (g *RunIDGenerator) NewID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}

	stamp := g.now().UTC().Format("20060102T150405Z")
	return g.prefix + "_" + stamp + "_" + hex.EncodeToString(buf), nil
}
