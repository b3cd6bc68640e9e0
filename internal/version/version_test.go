package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	saved := [3]string{Version, GitCommit, BuildTime}
	t.Cleanup(func() { Version, GitCommit, BuildTime = saved[0], saved[1], saved[2] })

	Version, GitCommit, BuildTime = "unknown", "unknown", "unknown"
	assert.Equal(t, "unknown", String())

	Version, GitCommit, BuildTime = "v0.2.0", "abc1234", "2026-01-02"
	assert.Equal(t, "v0.2.0 (abc1234) built 2026-01-02", String())
}
