package compstate

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Domain prefixes for content-addressed identity, mirroring the
// domain-separated hashing scheme used for invocation/completion
// identity in the teacher codebase.
const (
	domainStateHash      = "compcore/state/v1"
	domainTiebreakerID   = "compcore/tiebreaker/v1"
)

func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StateHash computes a stable content hash over the loaded compstate's
// team and arena identities. Re-evaluating byte-identical compstate
// input always yields the same hash; it is CompCore's git-independent
// analogue of the original implementation's "current commit" state
// marker, since CompCore has no dependency on the compstate being a git
// checkout.
func StateHash(teamIDs []TeamID, arenaIDs []ArenaID) string {
	teams := make([]string, len(teamIDs))
	for i, t := range teamIDs {
		teams[i] = string(t)
	}
	sort.Strings(teams)

	arenas := make([]string, len(arenaIDs))
	for i, a := range arenaIDs {
		arenas[i] = string(a)
	}
	sort.Strings(arenas)

	obj := map[string]any{
		"teams":  toAnySlice(teams),
		"arenas": toAnySlice(arenas),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		// teams/arenas are plain strings; MarshalCanonical cannot fail here.
		panic(err)
	}
	return hashWithDomain(domainStateHash, canonical)
}

// TiebreakerID computes a deterministic identity for a tiebreaker match
// from the sorted set of tied teams and the round it breaks a tie for.
// Because the input is sorted, the identity does not depend on
// iteration order, satisfying the determinism property that the same
// compstate always produces byte-equal Tiebreaker matches.
func TiebreakerID(round string, tied []TeamID) string {
	teams := make([]string, len(tied))
	for i, t := range tied {
		teams[i] = string(t)
	}
	sort.Strings(teams)

	obj := map[string]any{
		"round": round,
		"teams": toAnySlice(teams),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		panic(err)
	}
	return hashWithDomain(domainTiebreakerID, canonical)
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
