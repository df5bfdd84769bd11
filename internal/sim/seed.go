package sim

// Deterministic seeding contract: given the same top-level seed, patient
// IDs, and iteration count, every derived stream is identical run-to-run
// regardless of worker scheduling. Derivation uses splitmix64 so nearby
// seeds and IDs do not produce correlated streams.

const (
	patientStreamTag   = 0x9e3779b97f4a7c15
	iterationStreamTag = 0xd1342543de82ef95
	effectStreamTag    = 0x2545f4914f6cdd1d
)

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	z := x
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}

// PatientSeed derives the seed for one patient's private stream. Both
// arms of a PSA iteration call this with the same base seed, which is
// what makes Common Random Numbers work.
func PatientSeed(base int64, patientID int64) int64 {
	return int64(splitmix64(uint64(base) ^ splitmix64(uint64(patientID)*patientStreamTag)))
}

// EffectSeed derives the stream used for a patient's realized treatment
// effect draw, separate from the cycle stream so arm assignment cannot
// shift event draws.
func EffectSeed(base int64, patientID int64) int64 {
	return int64(splitmix64(uint64(base) ^ splitmix64(uint64(patientID)*effectStreamTag)))
}

// IterationSeed derives the per-iteration base seed for the PSA outer loop.
func IterationSeed(top int64, iteration int) int64 {
	return int64(splitmix64(uint64(top) ^ splitmix64(uint64(iteration)*iterationStreamTag)))
}
