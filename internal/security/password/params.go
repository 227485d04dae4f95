package password

import (
	"os"
	"strconv"
)

// Params is the argon2id cost used for admin-key hashes.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

const (
	defaultMemoryKiB   = 64 * 1024
	defaultIterations  = 3
	defaultParallelism = 1
)

// DefaultParams matches the floor enforced on ARGON2_* at startup.
func DefaultParams() Params {
	return Params{
		Memory:      defaultMemoryKiB,
		Iterations:  defaultIterations,
		Parallelism: defaultParallelism,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// ParamsFromEnv overlays ARGON2_MEMORY, ARGON2_ITER and ARGON2_PAR on
// DefaultParams. A value that is not a positive integer of the field's width
// keeps the default.
func ParamsFromEnv() Params {
	p := DefaultParams()
	p.Memory = envUint("ARGON2_MEMORY", 32, p.Memory)
	p.Iterations = envUint("ARGON2_ITER", 32, p.Iterations)
	p.Parallelism = envUint("ARGON2_PAR", 8, p.Parallelism)
	return p
}

func envUint[T uint8 | uint32](key string, bits int, def T) T {
	n, err := strconv.ParseUint(os.Getenv(key), 10, bits)
	if err != nil || n == 0 {
		return def
	}
	return T(n)
}
