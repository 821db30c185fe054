package policy

import (
	"math/rand"
	"strings"

	"github.com/torosent/ammogen/internal/keystore"
)

const mixPutProb = 0.5

// Mix flips an unbiased coin per request: heads behaves like Put, tails like Get.
// Records are tagged with the chosen method in lowercase.
type Mix struct {
	put *Put
	get *Get
	rnd *rand.Rand
}

// NewMix returns a Mix policy sharing store and rnd between both branches.
func NewMix(store *keystore.Store, rnd *rand.Rand, bodySize int) *Mix {
	return &Mix{
		put: NewPut(store, rnd, bodySize),
		get: NewGet(store, rnd),
		rnd: rnd,
	}
}

func (m *Mix) Next() (Request, error) {
	var (
		req Request
		err error
	)
	if flip(m.rnd, mixPutProb) {
		req, err = m.put.Next()
	} else {
		req, err = m.get.Next()
	}
	if err != nil {
		return Request{}, err
	}
	req.Tag = strings.ToLower(req.Method)
	return req, nil
}
