package ioext

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/flowterm/progress/progresserr"
)

// FileIO is a file-backed IO, grounded on io/file_io.rs's FileIO.
type FileIO struct {
	mu   sync.Mutex
	path string
	mode Mode
	caps Capabilities

	file   *os.File
	reader *bufio.Reader
	writer *bufio.Writer
	closed bool
}

// NewFileIO opens path in the given mode.
func NewFileIO(path string, mode Mode) (*FileIO, error) {
	caps := Capabilities{
		SupportsInput:  mode == ModeRead || mode == ModeReadWrite,
		SupportsOutput: mode == ModeWrite || mode == ModeAppend || mode == ModeReadWrite,
		SupportsSync:   true,
		SupportsSeek:   true,
	}

	var flags int
	switch mode {
	case ModeRead:
		flags = os.O_RDONLY
	case ModeWrite:
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ModeAppend:
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case ModeReadWrite:
		flags = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, progresserr.NewDisplayOperation("open_file", "ioext.FileIO", err)
	}

	fio := &FileIO{path: path, mode: mode, caps: caps, file: f}
	if caps.SupportsInput {
		fio.reader = bufio.NewReader(f)
	}
	if caps.SupportsOutput {
		fio.writer = bufio.NewWriter(f)
	}
	return fio, nil
}

func (f *FileIO) Name() string               { return "file_io" }
func (f *FileIO) Capabilities() Capabilities  { return f.caps }
func (f *FileIO) IsReady() bool               { f.mu.Lock(); defer f.mu.Unlock(); return !f.closed }

func (f *FileIO) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	if f.writer != nil {
		if err := f.writer.Flush(); err != nil {
			return progresserr.NewDisplayOperation("close", "ioext.FileIO", err)
		}
	}
	f.closed = true
	return f.file.Close()
}

func (f *FileIO) ensureReadable() error {
	if f.closed || !f.caps.SupportsInput || f.reader == nil {
		return progresserr.NewDisplayOperation("read", "ioext.FileIO", errNotReadable)
	}
	return nil
}

func (f *FileIO) ensureWritable() error {
	if f.closed || !f.caps.SupportsOutput || f.writer == nil {
		return progresserr.NewDisplayOperation("write", "ioext.FileIO", errNotWritable)
	}
	return nil
}

// ReadLine reads a single line, with any trailing \r\n or \n trimmed.
func (f *FileIO) ReadLine() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureReadable(); err != nil {
		return "", err
	}
	line, err := f.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// HasDataAvailable reports whether the file is open for reading. Files
// offer no cheap peek-ahead, so — matching the original — this is "open
// implies readable", not a true buffer check.
func (f *FileIO) HasDataAvailable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ensureReadable() == nil
}

// WriteLine writes line followed by a newline.
func (f *FileIO) WriteLine(line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureWritable(); err != nil {
		return err
	}
	if _, err := f.writer.WriteString(line); err != nil {
		return progresserr.NewDisplayOperation("write_line", "ioext.FileIO", err)
	}
	if _, err := f.writer.WriteString("\n"); err != nil {
		return progresserr.NewDisplayOperation("write_line", "ioext.FileIO", err)
	}
	return nil
}

// FlushOutput flushes buffered writes to disk.
func (f *FileIO) FlushOutput() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureWritable(); err != nil {
		return err
	}
	return f.writer.Flush()
}

// Seek repositions both the reader and writer to an absolute offset.
func (f *FileIO) Seek(position uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, progresserr.NewDisplayOperation("seek", "ioext.FileIO", errClosed)
	}
	if f.writer != nil {
		if err := f.writer.Flush(); err != nil {
			return 0, err
		}
	}
	pos, err := f.file.Seek(int64(position), 0)
	if err != nil {
		return 0, err
	}
	if f.reader != nil {
		f.reader.Reset(f.file)
	}
	if f.writer != nil {
		f.writer.Reset(f.file)
	}
	return uint64(pos), nil
}

// Position is unsupported without tracking offsets separately, matching
// the original's explicit limitation.
func (f *FileIO) Position() (uint64, error) {
	return 0, progresserr.NewDisplayOperation("position", "ioext.FileIO", errPositionUnsupported)
}

// Size returns the file's current size on disk.
func (f *FileIO) Size() (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, progresserr.NewDisplayOperation("size", "ioext.FileIO", errClosed)
	}
	info, err := os.Stat(f.path)
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}

type ioErr string

func (e ioErr) Error() string { return string(e) }

const (
	errNotReadable         = ioErr("file not opened for reading")
	errNotWritable         = ioErr("file not opened for writing")
	errClosed              = ioErr("file is closed")
	errPositionUnsupported = ioErr("getting position without seeking is not implemented for FileIO")
)
