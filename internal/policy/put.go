package policy

import (
	"math/rand"

	"github.com/torosent/ammogen/internal/keystore"
)

// Put writes random bodies under freshly minted keys. With a non-zero
// rewrite probability it sometimes reuses a stored key instead.
type Put struct {
	store       *keystore.Store
	rnd         *rand.Rand
	bodySize    int
	rewriteProb float64
}

// NewPut returns a Put policy that never rewrites.
func NewPut(store *keystore.Store, rnd *rand.Rand, bodySize int) *Put {
	return NewPutRewrite(store, rnd, bodySize, 0)
}

// NewPutRewrite returns a Put policy that reuses a uniformly chosen stored
// key with probability prob whenever the store is non-empty.
func NewPutRewrite(store *keystore.Store, rnd *rand.Rand, bodySize int, prob float64) *Put {
	return &Put{store: store, rnd: rnd, bodySize: bodySize, rewriteProb: prob}
}

func (p *Put) Next() (Request, error) {
	req := Request{Method: HTTPMethodPut, Tag: "put"}
	if p.needRewrite() {
		key, err := p.store.PickUniform(p.rnd)
		if err != nil {
			return Request{}, err
		}
		req.Key = key
		req.Rewrite = true
	} else {
		req.Key = freshKey(p.store, p.rnd)
		p.store.Add(req.Key)
	}
	req.Body = RandomBody(p.rnd, p.bodySize)
	return req, nil
}

func (p *Put) needRewrite() bool {
	if p.rewriteProb <= 0 {
		return false
	}
	return flip(p.rnd, p.rewriteProb) && p.store.Len() != 0
}
