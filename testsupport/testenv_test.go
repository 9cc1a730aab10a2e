package testsupport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestEnvWriteLines(t *testing.T) {
	env := New(80, 24)
	env.Write("first line\nsecond line")

	assert.Equal(t, "first line\nsecond line", env.Contents())
	assert.True(t, env.ContainsLine("first line"))
	assert.False(t, env.ContainsLine("missing"))
}

func TestTestEnvWriteLinesFrame(t *testing.T) {
	env := New(80, 24)
	env.WriteLines([]string{"a", "b", "c"})
	assert.Equal(t, "a\nb\nc", env.Contents())
}

func TestTestEnvMerge(t *testing.T) {
	a := New(80, 24)
	a.Write("alpha")
	b := New(80, 24)
	b.Write("beta")

	a.Merge(b)
	assert.Equal(t, "alpha\nbeta", a.Contents())
}

func TestTestEnvReset(t *testing.T) {
	env := New(80, 24)
	env.Write("something")
	env.Reset()
	assert.Equal(t, "", env.Contents())
}
