// Package policy decides the shape of every request written to an ammo file.
//
// A [Policy] is asked for the next request once per iteration of a run:
//
//	type Policy interface {
//		Next() (Request, error)
//	}
//
// Implementations mutate the shared [keystore.Store] from inside Next, so a key
// minted by a PUT can be picked by a later GET of the same run.
//
// # Variants
//
// The CLI method names map onto implementations as follows:
//   - put: [Put] with no rewrites. Fresh random key, random body.
//   - put_rew: [Put] with a rewrite probability. Sometimes reuses a stored key.
//   - get: [Get] with uniform key selection.
//   - get_un: [Get] with exponentially skewed selection (hot keys at the front).
//   - mix: [Mix], an unbiased coin between the put and get behaviour.
//
// # Randomness
//
// Every policy draws from the *rand.Rand handed to its constructor. Seeding
// that source makes a run reproducible:
//
//	rnd := rand.New(rand.NewSource(42))
//	p, err := policy.New(policy.MethodMix, store, rnd, policy.Options{})
package policy
