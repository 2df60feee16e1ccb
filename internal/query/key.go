package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key identifies one cache slot: a resource name followed by the parameters
// that vary the result, e.g. Key{"transactions", 2}.
type Key []any

func (k Key) segment(i int) string {
	b, err := json.Marshal(k[i])
	if err != nil {
		return fmt.Sprintf("%v", k[i])
	}

	return string(b)
}

// String is the canonical form used to index the cache.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i := range k {
		parts[i] = k.segment(i)
	}

	return "[" + strings.Join(parts, ",") + "]"
}

// HasPrefix reports whether every segment of prefix matches the leading
// segments of k. The empty prefix matches every key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}

	for i := range prefix {
		if k.segment(i) != prefix.segment(i) {
			return false
		}
	}

	return true
}

func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}
