package qlearn

import (
	"math/rand"
	"time"
)

type SeedGeneratorFnType func() int64

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// Set custom seed generator function for the policies' random number
// generators, by default uses current time in nanoseconds
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(SeedGeneratorFn()))
}
