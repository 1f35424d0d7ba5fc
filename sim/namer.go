package sim

import (
	"fmt"
	"sync"

	"golang.org/x/exp/rand"
)

var (
	namePrefixes = []string{"Xar", "Vex", "Nex", "Zen", "Sat", "Nept", "Plut", "Cer", "Pos"}
	nameSuffixes = []string{"ury", "us", "er", "urn", "une", "en", "o", "eon"}
	nameCodes    = []string{"X", "R", "N", "XR", "XN", "HC", "Z", "ZX", "ZR"}
)

// defaultNamer names bodies built outside an engine
var defaultNamer = NewNamer(1)

// Namer generates procedural planet names such as "Nexurn-ZX4821".
// The same seed always yields the same sequence of names.
type Namer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewNamer creates a namer seeded with seed
func NewNamer(seed uint64) *Namer {
	return &Namer{rng: rand.New(rand.NewSource(seed))}
}

// Name returns the next generated name
func (n *Namer) Name() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return fmt.Sprintf("%s%s-%s%d",
		namePrefixes[n.rng.Intn(len(namePrefixes))],
		nameSuffixes[n.rng.Intn(len(nameSuffixes))],
		nameCodes[n.rng.Intn(len(nameCodes))],
		1000+n.rng.Intn(9000),
	)
}
