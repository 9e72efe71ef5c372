// Package ids produces the short identifiers used for projects, files,
// attempts and generated questions. They are non-cryptographic: collision
// probability within a single user's dataset is accepted as negligible.
package ids

import (
	"math/rand"
	"strings"
	"sync"
)

const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	length   = 9
)

var (
	mu  sync.Mutex
	rng = rand.New(rand.NewSource(rand.Int63()))
)

// New returns a 9-character base36 token.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return b.String()
}
