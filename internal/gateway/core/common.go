package core

import "fmt"

const (
	MaxConcurrentAPICalls = 40
)

var (
	requestLimiter = make(chan struct{}, MaxConcurrentAPICalls)
)

// RunWithRateLimitedConcurrency executes fn under a shared semaphore so
// that fan-out steps cannot flood the downstream services. The slot is
// released even when fn panics.
func RunWithRateLimitedConcurrency(fn func()) {
	requestLimiter <- struct{}{}
	defer func() { <-requestLimiter }()

	fn()
}

func IsMissing(str string) bool {
	return len(str) == 0
}

func MissingParamErr(paramName string) error {
	return fmt.Errorf("required param [%v] is missing", paramName)
}
