package password

import (
	"github.com/alexedwards/argon2id"
)

// Hasher produces and checks argon2id PHC strings such as
// `$argon2id$v=19$m=131072,t=3,p=1$...`.
type Hasher struct {
	params Params
}

func NewHasher(p Params) *Hasher { return &Hasher{params: p} }

// FromEnv builds a Hasher from ARGON2_* variables.
func FromEnv() *Hasher { return NewHasher(ParamsFromEnv()) }

func (h *Hasher) Hash(plain string) (string, error) {
	return argon2id.CreateHash(plain, &argon2id.Params{
		Memory:      h.params.Memory,
		Iterations:  h.params.Iterations,
		Parallelism: h.params.Parallelism,
		SaltLength:  h.params.SaltLength,
		KeyLength:   h.params.KeyLength,
	})
}

// Verify checks plain against phc and also reports whether phc was produced
// with weaker parameters than the current policy.
func (h *Hasher) Verify(plain, phc string) (ok bool, needsRehash bool, err error) {
	ok, err = argon2id.ComparePasswordAndHash(plain, phc)
	if err != nil || !ok {
		return ok, false, err
	}
	return ok, h.NeedsRehash(phc), nil
}

func (h *Hasher) NeedsRehash(phc string) bool {
	stored, _, _, err := argon2id.DecodeHash(phc)
	if err != nil {
		// unparseable hashes are always replaced
		return true
	}
	p := h.params
	return stored.Memory < p.Memory ||
		stored.Iterations < p.Iterations ||
		stored.Parallelism < p.Parallelism ||
		stored.SaltLength < p.SaltLength ||
		stored.KeyLength < p.KeyLength
}
