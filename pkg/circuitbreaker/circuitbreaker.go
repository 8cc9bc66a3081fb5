package circuitbreaker

import "github.com/sony/gobreaker"

var (
	// MaxNumOfFailingRequests ...
	MaxNumOfFailingRequests = 10
	// FailingRatio ...
	FailingRatio = 0.6
)

// NewRouterBreaker returns a *gobreaker.CircuitBreaker guarding the external
// router calls of the conversion pipeline. The breaker trips once the overall
// number of requests exceeds MaxNumOfFailingRequests and the failing ratio
// has met FailingRatio. Errors keep propagating to the caller in every state.
func NewRouterBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "router",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
	})
}
