package cli

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestNormalizeArgs(t *testing.T) {
	t.Run("Rewrites legacy short flags with and without values", func(t *testing.T) {
		args := []string{"-ep=http://localhost:4318", "-sen", "svc", "-spn=op", "-dur", "2", "-dr=True", "-x", "False", "-ts=True", "-ptid=p", "-tid", "t"}
		assert.Equal(t, []string{
			"--endpoint=http://localhost:4318",
			"--service-name", "svc",
			"--span-name=op",
			"--duration", "2",
			"--dry-run=True",
			"--debug", "False",
			"--time-shift=True",
			"--parent-trace-id=p",
			"--trace-id", "t",
		}, NormalizeArgs(args))
	})

	t.Run("Does not rewrite a value that looks like a legacy flag", func(t *testing.T) {
		args := []string{"--span-name", "-x", "-sen", "-dur", "-dur=1", "-H", "-ep", "-dr=True"}
		assert.Equal(t, []string{
			"--span-name", "-x",
			"--service-name", "-dur",
			"--duration=1",
			"-H", "-ep",
			"--dry-run=True",
		}, NormalizeArgs(args))
	})

	t.Run("Rewrites the token after a flag that carries its own value", func(t *testing.T) {
		args := []string{"--span-name=op", "-x", "True", "-xFalse", "-ts=True"}
		assert.Equal(t, []string{"--span-name=op", "--debug", "True", "-xFalse", "--time-shift=True"}, NormalizeArgs(args))
	})

	t.Run("Maps the dry alias", func(t *testing.T) {
		assert.Equal(t, []string{"--dry-run=true"}, NormalizeArgs([]string{"--dry=true"}))
	})

	t.Run("Leaves long flags and values after the terminator alone", func(t *testing.T) {
		args := []string{"--endpoint", "http://x", "-H", "a=b", "--", "-ep"}
		assert.Equal(t, args, NormalizeArgs(args))
	})
}
