package policy

import (
	"math/rand"

	"github.com/torosent/ammogen/internal/keystore"
)

// Get reads stored keys, either uniformly or skewed towards the front of the store.
type Get struct {
	store  *keystore.Store
	rnd    *rand.Rand
	skewed bool
	rate   float64
}

// NewGet returns a Get policy with uniform key selection.
func NewGet(store *keystore.Store, rnd *rand.Rand) *Get {
	return &Get{store: store, rnd: rnd}
}

// NewGetSkewed returns a Get policy picking keys with an exponential skew of
// the given rate.
func NewGetSkewed(store *keystore.Store, rnd *rand.Rand, rate float64) *Get {
	return &Get{store: store, rnd: rnd, skewed: true, rate: rate}
}

func (g *Get) Next() (Request, error) {
	var (
		key string
		err error
	)
	if g.skewed {
		key, err = g.store.PickSkewed(g.rnd, g.rate)
	} else {
		key, err = g.store.PickUniform(g.rnd)
	}
	if err != nil {
		return Request{}, err
	}
	return Request{Method: HTTPMethodGet, Key: key, Tag: "get"}, nil
}
