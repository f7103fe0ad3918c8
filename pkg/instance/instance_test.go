package instance

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDPrefersEnv(t *testing.T) {
	t.Setenv(EnvKey, "  publisher-7 ")
	assert.Equal(t, "publisher-7", ID())
}

func TestIDDerivesHostAndPID(t *testing.T) {
	t.Setenv(EnvKey, "")
	id := ID()
	assert.True(t, strings.HasSuffix(id, fmt.Sprintf("-%d", os.Getpid())), id)
	assert.NotContains(t, strings.TrimSuffix(id, fmt.Sprintf("-%d", os.Getpid())), ".")
}
