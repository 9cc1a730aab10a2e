// Package ioext provides the pluggable I/O backends a progress display can
// read input from or write rendered frames to, grounded on io/io_trait.rs
// and io/file_io.rs.
package ioext

// Mode selects which direction(s) an IO is opened for.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
	ModeAppend
	ModeReadWrite
)

// Capabilities reports which optional operations an IO implementation
// supports, grounded on io/io_trait.rs's IOCapabilities.
type Capabilities struct {
	SupportsInput     bool
	SupportsOutput    bool
	SupportsSync      bool
	SupportsAsync     bool
	SupportsSeek      bool
	SupportsFiltering bool
}

// IO is the minimal lifecycle every backend implements, grounded on
// io/io_trait.rs's IO trait.
type IO interface {
	Name() string
	Capabilities() Capabilities
	IsReady() bool
	Close() error
}

// InputIO is an IO that can be read line by line.
type InputIO interface {
	IO
	ReadLine() (string, error)
	HasDataAvailable() bool
}

// OutputIO is an IO that can be written line by line.
type OutputIO interface {
	IO
	WriteLine(line string) error
	FlushOutput() error
}

// SeekableIO is an IO that supports random access.
type SeekableIO interface {
	IO
	Seek(position uint64) (uint64, error)
	Position() (uint64, error)
	Size() (uint64, error)
}
