package id3

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// ParseFile reads the tag of the file at path. A file without a
// container yields an empty tag and no error.
func ParseFile(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOFailure{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return NewDecoder(f).Parse()
}

// Save rewrites the container region of the file at path with the
// tag's frames, serialized for the target version, leaving the audio
// payload byte-identical. The new file content goes to a temporary
// file alongside the original and is renamed into place, so a failure
// mid-write never leaves a corrupt or truncated file behind.
func (t *Tag) Save(path string, target Version) error {
	if target != Version23 && target != Version24 {
		return UnsupportedVersion{target}
	}

	src, err := os.Open(path)
	if err != nil {
		return &IOFailure{Op: "open", Path: path, Err: err}
	}
	defer src.Close()

	offset, err := audioOffset(src)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return &IOFailure{Op: "create temp for", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	fail := func(op string, cause error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &IOFailure{Op: op, Path: path, Err: cause}
	}

	w := bufio.NewWriter(tmp)
	if err := t.Encode(w, target); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if _, err := src.Seek(offset, io.SeekStart); err != nil {
		return fail("seek", err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fail("copy audio of", err)
	}
	if err := w.Flush(); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOFailure{Op: "close", Path: path, Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOFailure{Op: "rename", Path: path, Err: err}
	}

	return nil
}

// audioOffset returns the byte offset at which the audio stream
// begins, which is 0 for files carrying no container. It reads from
// the start of f.
func audioOffset(f *os.File) (int64, error) {
	var raw [tagHeaderSize]byte
	n, err := io.ReadFull(f, raw[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, &IOFailure{Op: "read", Path: f.Name(), Err: err}
	}
	if n < tagHeaderSize || !bytes.Equal(raw[:3], id3Magic) {
		return 0, nil
	}

	offset := int64(tagHeaderSize + desynchsafe([4]byte(raw[6:10])))

	// A corrupt header can declare a tag larger than the file; seeking
	// past EOF would silently produce a file without its audio.
	stat, err := f.Stat()
	if err != nil {
		return 0, &IOFailure{Op: "stat", Path: f.Name(), Err: err}
	}
	if offset > stat.Size() {
		return 0, MalformedContainer{Reason: "declared tag size exceeds available bytes"}
	}

	return offset, nil
}
