package query_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
	"github.com/MrJamesThe3rd/expensify/internal/query"
)

func TestDefaultRetry(t *testing.T) {
	unauthorized := &apiclient.StatusError{StatusCode: http.StatusUnauthorized}
	notFound := &apiclient.StatusError{StatusCode: http.StatusNotFound}
	serverErr := &apiclient.StatusError{StatusCode: http.StatusBadGateway}
	network := errors.New("connection refused")

	assert.False(t, query.DefaultRetry(0, unauthorized))
	assert.False(t, query.DefaultRetry(0, notFound))

	for _, err := range []error{serverErr, network} {
		assert.True(t, query.DefaultRetry(0, err))
		assert.True(t, query.DefaultRetry(1, err))
		assert.False(t, query.DefaultRetry(2, err))
	}

	assert.False(t, query.NoRetry(0, network))
}

func TestExponentialDelay(t *testing.T) {
	assert.Equal(t, time.Second, query.ExponentialDelay(0))
	assert.Equal(t, 2*time.Second, query.ExponentialDelay(1))
	assert.Equal(t, 16*time.Second, query.ExponentialDelay(4))
	assert.Equal(t, 30*time.Second, query.ExponentialDelay(9))
}
