package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Run("round-trips a simple argument list", func(t *testing.T) {
		args, err := Tokenize("notify-send title body")
		require.NoError(t, err)
		assert.Equal(t, []string{"notify-send", "title", "body"}, args)
		assert.Equal(t, "notify-send title body", strings.Join(args, " "))
	})

	t.Run("respects quoting", func(t *testing.T) {
		args, err := Tokenize(`notify-send "two words"`)
		require.NoError(t, err)
		assert.Equal(t, []string{"notify-send", "two words"}, args)
	})

	t.Run("fails on unbalanced quotes", func(t *testing.T) {
		_, err := Tokenize(`echo "oops`)
		assert.Error(t, err)
	})
}

func TestRun(t *testing.T) {
	t.Run("empty command is a successful no-op", func(t *testing.T) {
		assert.NoError(t, Run(""))
	})

	t.Run("whitespace-only command is a successful no-op", func(t *testing.T) {
		assert.NoError(t, Run("   "))
	})

	t.Run("successful command", func(t *testing.T) {
		assert.NoError(t, Run("true"))
	})

	t.Run("non-zero exit reports the code", func(t *testing.T) {
		err := Run("false")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exited with status 1")
	})

	t.Run("failure message carries captured output", func(t *testing.T) {
		err := Run(`sh -c "echo boom >&2; exit 3"`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exited with status 3")
		assert.Contains(t, err.Error(), "stderr = [boom]")
		assert.Contains(t, err.Error(), "no stdout")
	})

	t.Run("missing executable is a recoverable error", func(t *testing.T) {
		err := Run("definitely-not-a-real-command-xyz")
		assert.Error(t, err)
	})
}

func TestRenderOutput(t *testing.T) {
	assert.Equal(t, "no stdout", renderOutput("stdout", nil))
	assert.Equal(t, "stdout = [hello]", renderOutput("stdout", []byte("hello\n")))
	assert.Equal(t, "stderr was not valid UTF-8", renderOutput("stderr", []byte{0xff, 0xfe}))
}
