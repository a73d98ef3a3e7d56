package id3

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Decoder parses an ID3v2 container from a byte stream.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Parse reads a complete tag, leaving the reader positioned at the
// first byte after the container.
//
// A stream that carries no container at all yields an empty tag and no
// error; absence of a tag is a normal state. A container that is
// present but structurally inconsistent fails with MalformedContainer.
func (d *Decoder) Parse() (*Tag, error) {
	tag := NewTag()

	magic, err := d.r.Peek(len(id3Magic))
	if err != nil && err != io.EOF {
		return nil, &IOFailure{Op: "read tag header", Err: err}
	}
	if !bytes.Equal(magic, id3Magic) {
		// Absence of a container, including a stream too short to
		// hold the magic, is a normal state.
		return tag, nil
	}

	header, err := d.parseHeader()
	if err != nil {
		return nil, err
	}
	tag.Header = header

	body := make([]byte, header.Size)
	if _, err := io.ReadFull(d.r, body); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, MalformedContainer{Reason: "declared tag size exceeds available bytes"}
		}
		return nil, &IOFailure{Op: "read tag region", Err: err}
	}

	if header.Flags.ExtendedHeader() {
		body, err = skipExtendedHeader(body, header.Version)
		if err != nil {
			return nil, err
		}
	}

	for len(body) > 0 {
		if body[0] == 0 {
			// Padding runs to the end of the tag region.
			break
		}

		frame, rest, err := parseFrame(body, header.Version)
		if err != nil {
			return nil, err
		}
		tag.Frames = append(tag.Frames, frame)
		body = rest
	}

	return tag, nil
}

func (d *Decoder) parseHeader() (TagHeader, error) {
	var raw struct {
		Magic   [3]byte
		Version [2]byte
		Flags   byte
		Size    [4]byte
	}

	if err := binary.Read(d.r, binary.BigEndian, &raw); err != nil {
		return TagHeader{}, MalformedContainer{Reason: "truncated tag header"}
	}

	version := Version(int16(raw.Version[0])<<8 | int16(raw.Version[1]))
	if raw.Version[0] < 3 || raw.Version[0] > 4 {
		return TagHeader{}, UnsupportedVersion{version}
	}

	flags := HeaderFlags(raw.Flags)
	if flags.Unsynchronisation() {
		return TagHeader{}, MalformedContainer{Reason: "unsynchronised containers are not supported"}
	}

	return TagHeader{
		Version: version,
		Flags:   flags,
		Size:    desynchsafe(raw.Size),
	}, nil
}

// skipExtendedHeader discards the extended header at the start of the
// tag body. v2.3 declares its size excluding the size field, v2.4
// including it (and synchsafe).
func skipExtendedHeader(body []byte, version Version) ([]byte, error) {
	if len(body) < 4 {
		return nil, MalformedContainer{Reason: "truncated extended header"}
	}

	var n int
	if version >= Version24 {
		n = desynchsafe([4]byte(body[:4]))
	} else {
		n = int(binary.BigEndian.Uint32(body[:4])) + 4
	}
	if n < 4 || n > len(body) {
		return nil, MalformedContainer{Reason: "extended header overruns tag region"}
	}

	return body[n:], nil
}

// parseFrame decodes the frame at the start of b and returns the
// remainder of the tag region.
func parseFrame(b []byte, version Version) (Frame, []byte, error) {
	if len(b) < frameHeaderSize {
		return nil, nil, MalformedContainer{Reason: "truncated frame header"}
	}

	id := b[:4]
	for _, c := range id {
		// Frame IDs are A-Z and 0-9 only.
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') {
			return nil, nil, MalformedContainer{Reason: fmt.Sprintf("invalid frame ID %q", id)}
		}
	}

	header := FrameHeader{
		id:    FrameType(id),
		flags: FrameFlags(binary.BigEndian.Uint16(b[8:10])),
	}

	// v2.3 frame sizes are plain big endian, v2.4 synchsafe.
	var size int
	if version >= Version24 {
		size = desynchsafe([4]byte(b[4:8]))
	} else {
		size = int(binary.BigEndian.Uint32(b[4:8]))
	}

	rest := b[frameHeaderSize:]
	if size < 0 || size > len(rest) {
		return nil, nil, MalformedContainer{Reason: fmt.Sprintf("frame %s overruns tag region", header.id)}
	}

	frame, err := decodeFrame(header, rest[:size])
	if err != nil {
		return nil, nil, err
	}

	return frame, rest[size:], nil
}

func decodeFrame(header FrameHeader, payload []byte) (Frame, error) {
	// Compressed, encrypted and grouped frames carry extra header data
	// the codec does not interpret; they are preserved verbatim like
	// unrecognized IDs.
	opaque := header.flags.Compressed() || header.flags.Encrypted() || header.flags.Grouped()

	switch {
	case opaque:
	case header.id == "COMM":
		return decodeComment(header, payload)
	case header.id == "USLT":
		return decodeLyrics(header, payload)
	case header.id == "APIC":
		return decodePicture(header, payload)
	case header.id[0] == 'T' && header.id != "TXXX":
		return decodeText(header, payload)
	}

	Log.Debug().Str("frame", string(header.id)).Int("size", len(payload)).
		Msg("preserving frame as opaque data")

	data := make([]byte, len(payload))
	copy(data, payload)
	return UnknownFrame{FrameHeader: header, Data: data}, nil
}

// frameEncoding reads the leading encoding byte of a textual frame.
func frameEncoding(header FrameHeader, payload []byte) (Encoding, []byte, error) {
	if len(payload) == 0 {
		return 0, nil, MalformedContainer{Reason: fmt.Sprintf("empty %s frame payload", header.id)}
	}

	enc := Encoding(payload[0])
	if !enc.valid() {
		return 0, nil, InvalidEncoding{payload[0]}
	}

	return enc, payload[1:], nil
}

func decodeText(header FrameHeader, payload []byte) (Frame, error) {
	enc, rest, err := frameEncoding(header, payload)
	if err != nil {
		return nil, err
	}

	// Multi-valued frames read only the first value.
	first, _, _ := splitTerm(rest, enc)
	text, err := enc.decode(first)
	if err != nil {
		return nil, err
	}

	return TextFrame{FrameHeader: header, Text: text}, nil
}

func decodeComment(header FrameHeader, payload []byte) (Frame, error) {
	lang, desc, text, err := decodeLanguageText(header, payload)
	if err != nil {
		return nil, err
	}

	return CommentFrame{FrameHeader: header, Language: lang, Description: desc, Text: text}, nil
}

func decodeLyrics(header FrameHeader, payload []byte) (Frame, error) {
	lang, desc, text, err := decodeLanguageText(header, payload)
	if err != nil {
		return nil, err
	}

	return LyricsFrame{FrameHeader: header, Language: lang, Description: desc, Text: text}, nil
}

// decodeLanguageText handles the shared COMM/USLT layout: encoding
// byte, 3-byte language, described text.
func decodeLanguageText(header FrameHeader, payload []byte) (lang, desc, text string, err error) {
	enc, rest, err := frameEncoding(header, payload)
	if err != nil {
		return "", "", "", err
	}
	if len(rest) < 3 {
		return "", "", "", MalformedContainer{Reason: fmt.Sprintf("truncated %s frame", header.id)}
	}

	lang = string(rest[:3])
	descRaw, textRaw, _ := splitTerm(rest[3:], enc)

	if desc, err = enc.decode(descRaw); err != nil {
		return "", "", "", err
	}
	if text, err = enc.decode(textRaw); err != nil {
		return "", "", "", err
	}

	return lang, desc, text, nil
}

func decodePicture(header FrameHeader, payload []byte) (Frame, error) {
	enc, rest, err := frameEncoding(header, payload)
	if err != nil {
		return nil, err
	}

	mimeRaw, rest, ok := splitTerm(rest, EncodingISO88591)
	if !ok || len(rest) == 0 {
		return nil, MalformedContainer{Reason: "truncated APIC frame"}
	}
	mime, err := EncodingISO88591.decode(mimeRaw)
	if err != nil {
		return nil, err
	}

	pictureType := PictureType(rest[0])
	descRaw, data, ok := splitTerm(rest[1:], enc)
	if !ok {
		return nil, MalformedContainer{Reason: "APIC frame missing description terminator"}
	}
	desc, err := enc.decode(descRaw)
	if err != nil {
		return nil, err
	}

	img := make([]byte, len(data))
	copy(img, data)

	return PictureFrame{
		FrameHeader: header,
		MIMEType:    mime,
		PictureType: pictureType,
		Description: desc,
		Data:        img,
	}, nil
}
