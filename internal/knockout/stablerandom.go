package knockout

import (
	"hash/fnv"

	"github.com/compcore/compcore/internal/compstate"
)

// Random is a small, deterministic, seedable generator used only to
// shuffle which zone/slot a team lands in within an already-decided
// match — never the pairing or progression outcome itself. It is not
// bit-compatible with any particular language's standard PRNG; only
// its determinism (same seed bytes, same shuffle) matters, since that
// is the only property the knockout scheduler's correctness depends
// on.
type Random struct {
	state uint64
}

// NewRandom seeds a Random from arbitrary bytes (conventionally the
// concatenation of the bracket's seed team IDs in seed order), so re-evaluating
// the same compstate always produces the same zone shuffle.
func NewRandom(seed []byte) *Random {
	h := fnv.New64a()
	_, _ = h.Write(seed)
	state := h.Sum64()
	if state == 0 {
		state = 0x9e3779b97f4a7c15
	}
	return &Random{state: state}
}

// next returns the generator's next 64-bit output via xorshift64*.
func (r *Random) next() uint64 {
	x := r.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.state = x
	return x * 0x2545F4914F6CDD1D
}

// Intn returns a deterministic value in [0, n).
func (r *Random) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.next() % uint64(n))
}

// ShuffleTeams permutes teams in place using a Fisher-Yates shuffle
// driven by Intn.
func (r *Random) ShuffleTeams(teams []compstate.TeamID) {
	for i := len(teams) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		teams[i], teams[j] = teams[j], teams[i]
	}
}
