package shortid_test

import (
	"testing"

	"github.com/mdouchement/foundtag/internal/shortid"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	id := shortid.New()

	assert.Len(t, id, shortid.Length)
	assert.Regexp(t, "^[0-9a-f]{8}$", id)
}

func TestNewDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := shortid.New()
		assert.False(t, seen[id], "identifier %s issued twice", id)
		seen[id] = true
	}
}
