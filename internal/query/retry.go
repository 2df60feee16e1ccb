package query

import (
	"time"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
)

// RetryPolicy decides whether a failed fetch is attempted again.
// failureCount is the number of retries already made for this fetch.
type RetryPolicy func(failureCount int, err error) bool

// maxRetries caps the default policy. A failing query is attempted at most
// three times in total.
const maxRetries = 2

// DefaultRetry never retries a 401 or a 404, which are answers rather than
// transient failures, and retries anything else up to maxRetries times.
func DefaultRetry(failureCount int, err error) bool {
	if apiclient.IsUnauthorized(err) || apiclient.IsNotFound(err) {
		return false
	}

	return failureCount < maxRetries
}

func NoRetry(int, error) bool { return false }

// ExponentialDelay doubles from one second up to thirty.
func ExponentialDelay(failureCount int) time.Duration {
	d := time.Second << min(failureCount, 5)
	return min(d, 30*time.Second)
}
