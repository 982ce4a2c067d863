package sim

import (
	"hash/fnv"
	"math/rand"
)

// === TrialKey ===

// TrialKey uniquely identifies a reproducible simulation trial.
// Two trials with the same TrialKey and identical inputs MUST produce
// bit-for-bit identical results.
type TrialKey int64

// NewTrialKey creates a TrialKey from a seed value.
func NewTrialKey(seed int64) TrialKey {
	return TrialKey(seed)
}

// TrialKeyFor derives the key for one trial of a run: the base seed offset
// by the trial index. Running trials t..t+k-1 of an R-trial simulation is
// therefore indistinguishable from k single-trial simulations seeded
// base+t .. base+t+k-1.
func TrialKeyFor(baseSeed int64, trialIndex int) TrialKey {
	return TrialKey(baseSeed + int64(trialIndex))
}

// === Subsystem Constants ===

const (
	// SubsystemRisk is the RNG subsystem for job-loss risk draws.
	SubsystemRisk = "risk"

	// SubsystemTakeup is the RNG subsystem for UI take-up draws.
	SubsystemTakeup = "takeup"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: trialKey XOR fnv1a64(subsystemName). Isolating the
// streams keeps each subsystem's draw sequence stable when another subsystem
// changes how many draws it consumes.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        TrialKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a TrialKey.
func NewPartitionedRNG(key TrialKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the TrialKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() TrialKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
