package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFillsRuntimeFields(t *testing.T) {
	info := Get()

	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestStringShortensCommit(t *testing.T) {
	info := Info{
		Version: "1.4.0",
		Commit:  "0123456789abcdef",
		Date:    "2026-08-23",
	}

	s := info.String()
	assert.Contains(t, s, "arcops 1.4.0")
	assert.Contains(t, s, "commit 01234567,")
	assert.NotContains(t, s, "89abcdef")
}

func TestShort(t *testing.T) {
	assert.Equal(t, "1.4.0", Info{Version: "1.4.0"}.Short())
}
