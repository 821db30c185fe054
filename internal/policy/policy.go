package policy

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/torosent/ammogen/internal/keystore"
)

// ErrInvalidMethod is returned for a method name no policy implements.
var ErrInvalidMethod = errors.New("invalid method")

// Method is the CLI name of a generation policy.
type Method string

const (
	MethodPut        Method = "put"
	MethodPutRewrite Method = "put_rew"
	MethodGet        Method = "get"
	MethodGetSkewed  Method = "get_un"
	MethodMix        Method = "mix"
)

// Methods lists every supported method in display order.
var Methods = []Method{MethodPut, MethodPutRewrite, MethodGet, MethodGetSkewed, MethodMix}

const (
	HTTPMethodPut = "PUT"
	HTTPMethodGet = "GET"
)

const (
	DefaultBodySize    = 256
	DefaultRewriteProb = 0.1
)

// ParseMethod validates a method name.
func ParseMethod(name string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrInvalidMethod, name, methodList())
}

func methodList() string {
	names := make([]string, len(Methods))
	for i, m := range Methods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Tag names the run for output files and record headers.
func (m Method) Tag() string {
	switch m {
	case MethodPut, MethodPutRewrite:
		return "put"
	case MethodGet, MethodGetSkewed:
		return "get"
	default:
		return string(m)
	}
}

// NeedsKeys reports whether the method can only run against a pre-populated store.
func (m Method) NeedsKeys() bool {
	return m == MethodGet || m == MethodGetSkewed || m == MethodMix
}

// MintsKeys reports whether the method adds keys, making the store worth saving.
func (m Method) MintsKeys() bool {
	return m == MethodPut || m == MethodPutRewrite || m == MethodMix
}

// Request is one generated request. Body is nil for GETs.
type Request struct {
	Method  string
	Key     string
	Body    []byte
	Tag     string
	Rewrite bool
}

// Policy produces the request for each iteration of a run.
type Policy interface {
	Next() (Request, error)
}

// Options tunes the policies. Zero values fall back to the defaults.
type Options struct {
	BodySize    int
	RewriteProb float64
	SkewRate    float64
}

func (o Options) withDefaults() Options {
	if o.BodySize <= 0 {
		o.BodySize = DefaultBodySize
	}
	if o.RewriteProb <= 0 {
		o.RewriteProb = DefaultRewriteProb
	}
	if o.SkewRate <= 0 {
		o.SkewRate = keystore.DefaultSkewRate
	}
	return o
}

// New builds the policy for method.
func New(method Method, store *keystore.Store, rnd *rand.Rand, opts Options) (Policy, error) {
	if store == nil {
		return nil, fmt.Errorf("key store cannot be nil")
	}
	if rnd == nil {
		return nil, fmt.Errorf("random source cannot be nil")
	}
	opts = opts.withDefaults()

	switch method {
	case MethodPut:
		return NewPut(store, rnd, opts.BodySize), nil
	case MethodPutRewrite:
		return NewPutRewrite(store, rnd, opts.BodySize, opts.RewriteProb), nil
	case MethodGet:
		return NewGet(store, rnd), nil
	case MethodGetSkewed:
		return NewGetSkewed(store, rnd, opts.SkewRate), nil
	case MethodMix:
		return NewMix(store, rnd, opts.BodySize), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrInvalidMethod, method)
	}
}

func flip(rnd *rand.Rand, prob float64) bool {
	return rnd.Float64() < prob
}

// RandomKey returns a random 64-bit value in lowercase hex without prefix or
// leading zeros.
func RandomKey(rnd *rand.Rand) string {
	return strconv.FormatUint(rnd.Uint64(), 16)
}

// freshKey mints a key the store does not hold yet.
func freshKey(store *keystore.Store, rnd *rand.Rand) string {
	for {
		if key := RandomKey(rnd); !store.Contains(key) {
			return key
		}
	}
}

// RandomBody returns size raw random bytes.
func RandomBody(rnd *rand.Rand, size int) []byte {
	body := make([]byte, size)
	rnd.Read(body)
	return body
}
