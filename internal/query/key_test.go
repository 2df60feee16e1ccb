package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/expensify/internal/query"
)

func TestKey_HasPrefix(t *testing.T) {
	tests := []struct {
		name   string
		key    query.Key
		prefix query.Key
		want   bool
	}{
		{name: "ResourcePrefix", key: query.Key{"transactions", 2}, prefix: query.Key{"transactions"}, want: true},
		{name: "Self", key: query.Key{"transactions", 2}, prefix: query.Key{"transactions", 2}, want: true},
		{name: "Empty", key: query.Key{"categories"}, prefix: query.Key{}, want: true},
		{name: "OtherResource", key: query.Key{"categories"}, prefix: query.Key{"transactions"}, want: false},
		{name: "Longer", key: query.Key{"transactions"}, prefix: query.Key{"transactions", 1}, want: false},
		{name: "TypedSegments", key: query.Key{"transactions", 2}, prefix: query.Key{"transactions", "2"}, want: false},
		{name: "Nested", key: query.Key{"cashflow", "summary", 2024}, prefix: query.Key{"cashflow"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.HasPrefix(tt.prefix))
		})
	}
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, `["auth","me"]`, query.Key{"auth", "me"}.String())
	assert.Equal(t, `["transactions",3]`, query.Key{"transactions", 3}.String())
	assert.True(t, query.Key{"transactions", 3}.Equal(query.Key{"transactions", 3}))
	assert.False(t, query.Key{"transactions", 3}.Equal(query.Key{"transactions"}))
}
