package id3

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Log receives parse diagnostics. It discards everything unless a
// caller swaps in a real logger.
var Log = zerolog.Nop()

var id3Magic = []byte("ID3")

const (
	tagHeaderSize   = 10
	frameHeaderSize = 10

	// Padding is the number of zero bytes appended after the last
	// frame when serializing a container.
	Padding = 1024
)

type (
	HeaderFlags byte
	FrameFlags  uint16
	Version     int16
	FrameType   string
	PictureType byte
)

// Container versions the writer can emit.
const (
	Version23 Version = 0x0300
	Version24 Version = 0x0400

	// DefaultVersion is the target used when the caller has no
	// preference. v2.3 remains the most widely readable revision.
	DefaultVersion = Version23
)

// Picture type codes from the APIC enumeration that the facade keys on.
const (
	PictureFrontCover PictureType = 3
	PictureBackCover  PictureType = 4
)

type TagHeader struct {
	Version Version
	Flags   HeaderFlags
	Size    int // size of the tag, excluding the header itself
}

// Tag is an in-memory ID3v2 container: an ordered collection of
// frames. The order frames were read in is the order they are written
// back out. A Tag with a zero Header represents a file that carries no
// container yet, which is a valid state, not an error.
type Tag struct {
	Header TagHeader
	Frames []Frame
}

// NewTag returns an empty tag.
func NewTag() *Tag {
	return &Tag{}
}

// HasHeader reports whether the tag was read from an existing
// container, as opposed to representing a file without one.
func (t *Tag) HasHeader() bool {
	return t.Header.Version > 0
}

// MalformedContainer reports a container whose header is present but
// whose declared structure is internally inconsistent. It is never
// used for a missing header, which is a valid state.
type MalformedContainer struct {
	Reason string
}

// UnsupportedVersion reports a container revision the codec cannot
// handle, on read or as a write target.
type UnsupportedVersion struct {
	Version Version
}

// InvalidEncoding reports a frame that declares a text encoding byte
// outside the four the format defines.
type InvalidEncoding struct {
	Byte byte
}

// IOFailure wraps a failed read, write or rename on the underlying
// file. A save that fails with it leaves the original file untouched.
type IOFailure struct {
	Op   string
	Path string
	Err  error
}

func (err MalformedContainer) Error() string {
	return fmt.Sprintf("malformed ID3v2 container: %s", err.Reason)
}

func (err UnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported version: %s", err.Version)
}

func (err InvalidEncoding) Error() string {
	return fmt.Sprintf("invalid text encoding byte %d", err.Byte)
}

func (err *IOFailure) Error() string {
	if err.Path == "" {
		return fmt.Sprintf("%s: %s", err.Op, err.Err)
	}
	return fmt.Sprintf("%s %s: %s", err.Op, err.Path, err.Err)
}

func (err *IOFailure) Unwrap() error {
	return err.Err
}

func (f HeaderFlags) Unsynchronisation() bool {
	return (f & 128) > 0
}

func (f HeaderFlags) ExtendedHeader() bool {
	return (f & 64) > 0
}

func (f HeaderFlags) Experimental() bool {
	return (f & 32) > 0
}

func (f FrameFlags) Compressed() bool {
	return (f & 128) > 0
}

func (f FrameFlags) Encrypted() bool {
	return (f & 64) > 0
}

func (f FrameFlags) Grouped() bool {
	return (f & 32) > 0
}

func (v Version) String() string {
	return fmt.Sprintf("ID3v2.%.1d.%.1d", v>>8, v&0xFF)
}

func (f FrameType) String() string {
	if v, ok := FrameNames[f]; ok {
		return v
	}

	return string(f)
}

func (p PictureType) String() string {
	if int(p) >= len(PictureTypes) {
		return ""
	}

	return PictureTypes[p]
}

// desynchsafe decodes the 7-bits-per-byte integers used for tag sizes
// and for v2.4 frame sizes.
func desynchsafe(b [4]byte) int {
	return int(b[0])<<21 | int(b[1])<<14 | int(b[2])<<7 | int(b[3])
}

func synchsafe(i int) int {
	return (i & 0x7f) |
		((i & 0x3f80) << 1) |
		((i & 0x1fc000) << 2) |
		((i & 0xfe0000) << 3)
}

func concat(bs ...[]byte) []byte {
	n := 0
	for _, b := range bs {
		n += len(b)
	}
	out := make([]byte, 0, n)
	for _, b := range bs {
		out = append(out, b...)
	}
	return out
}
