package ioext

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileIOWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	w, err := NewFileIO(path, ModeWrite)
	require.NoError(t, err)
	require.NoError(t, w.WriteLine("hello"))
	require.NoError(t, w.WriteLine("world"))
	require.NoError(t, w.FlushOutput())
	require.NoError(t, w.Close())

	r, err := NewFileIO(path, ModeRead)
	require.NoError(t, err)
	defer r.Close()

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "hello", line)

	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "world", line)
}

func TestFileIOSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sized.txt")

	w, err := NewFileIO(path, ModeWrite)
	require.NoError(t, err)
	require.NoError(t, w.WriteLine("1234"))
	require.NoError(t, w.FlushOutput())

	size, err := w.Size()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), size)
	require.NoError(t, w.Close())
}

func TestFileIORejectsWriteInReadMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readonly.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	r, err := NewFileIO(path, ModeRead)
	require.NoError(t, err)
	defer r.Close()

	assert.Error(t, r.WriteLine("nope"))
}

func TestTeeWriterFansOutWrites(t *testing.T) {
	var a, b bytes.Buffer
	tee := NewTeeWriter(NewNamedWriter("a", &a), NewNamedWriter("b", &b))
	_, err := tee.Write([]byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi", a.String())
	assert.Equal(t, "hi", b.String())
}

func TestWriterRegistry(t *testing.T) {
	reg := NewWriterRegistry()
	var buf bytes.Buffer
	reg.Register(NewNamedWriter("primary", &buf))

	w, ok := reg.Get("primary")
	require.True(t, ok)
	_, err := w.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", buf.String())

	reg.Remove("primary")
	_, ok = reg.Get("primary")
	assert.False(t, ok)
}
