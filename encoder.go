package id3

import (
	"bytes"
	"encoding/binary"
	"io"
)

// outputEncoding is the single text encoding the writer uses for a
// target version. UTF-8 is not legal in v2.3, so text written for that
// target is normalized to UTF-16 with BOM instead.
func outputEncoding(target Version) Encoding {
	if target >= Version24 {
		return EncodingUTF8
	}
	return EncodingUTF16
}

// Encode serializes the container for the requested minor version and
// writes it to w. Targets other than v2.3 and v2.4 fail with
// UnsupportedVersion. Text payloads are re-encoded to the target's
// output encoding regardless of how they were read; opaque frames are
// written back verbatim.
func (t *Tag) Encode(w io.Writer, target Version) error {
	if target != Version23 && target != Version24 {
		return UnsupportedVersion{target}
	}

	enc := outputEncoding(target)

	var frames bytes.Buffer
	for _, frame := range t.Frames {
		body := frame.body(enc)

		hdr := make([]byte, frameHeaderSize)
		copy(hdr, frame.ID())
		size := len(body)
		if target >= Version24 {
			size = synchsafe(size)
		}
		binary.BigEndian.PutUint32(hdr[4:8], uint32(size))
		binary.BigEndian.PutUint16(hdr[8:10], uint16(frame.Header().flags))

		frames.Write(hdr)
		frames.Write(body)
	}

	header := make([]byte, tagHeaderSize)
	copy(header, id3Magic)
	header[3] = byte(target >> 8)
	header[4] = byte(target)
	binary.BigEndian.PutUint32(header[6:10], uint32(synchsafe(frames.Len()+Padding)))

	if _, err := w.Write(header); err != nil {
		return err
	}
	if _, err := frames.WriteTo(w); err != nil {
		return err
	}

	_, err := w.Write(make([]byte, Padding))
	return err
}

// Bytes renders the complete container for the target version.
func (t *Tag) Bytes(target Version) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Encode(&buf, target); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
