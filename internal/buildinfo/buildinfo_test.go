package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	oldV, oldC := Version, Commit
	t.Cleanup(func() { Version, Commit = oldV, oldC })

	Version, Commit = "dev", "unknown"
	assert.Equal(t, "dev", Short())

	Commit = "0123456789abcdef"
	assert.Equal(t, "0123456", Short())

	Version = "v1.2.0"
	assert.Equal(t, "v1.2.0", Short())
}
