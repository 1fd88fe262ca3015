package osutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadMemoryLimit(t *testing.T) {
	dir := t.TempDir()

	write := func(name, contents string) string {
		path := filepath.Join(dir, name)
		assert.NoError(t, os.WriteFile(path, []byte(contents), 0600))
		return path
	}

	limit, ok := readMemoryLimit(write("v1", "536870912\n"))
	assert.True(t, ok)
	assert.EqualValues(t, 536870912, limit)

	_, ok = readMemoryLimit(write("v1-unrestricted", "9223372036854771712\n"))
	assert.False(t, ok)

	_, ok = readMemoryLimit(write("v2-unrestricted", "max\n"))
	assert.False(t, ok)

	_, ok = readMemoryLimit(write("garbage", "lots"))
	assert.False(t, ok)

	_, ok = readMemoryLimit(filepath.Join(dir, "missing"))
	assert.False(t, ok)
}

func TestBallastSize(t *testing.T) {
	assert.EqualValues(t, 0, ballastSize(1000, 0))
	assert.EqualValues(t, 0, ballastSize(1000, -1))
	assert.EqualValues(t, 250, ballastSize(1000, 0.25))
	assert.EqualValues(t, 500, ballastSize(1000, 0.9))
}

func TestGetTotalMemory(t *testing.T) {
	assert.True(t, GetTotalMemory() > 0)
}
