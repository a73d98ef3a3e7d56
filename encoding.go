package id3

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is the text-encoding byte carried by every textual frame.
type Encoding byte

const (
	EncodingISO88591 Encoding = 0
	EncodingUTF16    Encoding = 1 // UTF-16 with BOM
	EncodingUTF16BE  Encoding = 2
	EncodingUTF8     Encoding = 3
)

var (
	// The format mandates big endian for BOM-less UTF-16, so a payload
	// without a BOM decodes as BE.
	utf16in  = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	utf16be  = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	utf16out = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
)

func (e Encoding) valid() bool {
	return e <= EncodingUTF8
}

func (e Encoding) String() string {
	switch e {
	case EncodingISO88591:
		return "ISO-8859-1"
	case EncodingUTF16:
		return "UTF-16"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUTF8:
		return "UTF-8"
	default:
		return fmt.Sprintf("%d", byte(e))
	}
}

// terminator returns the string terminator for the encoding. The
// UTF-16 variants terminate on a 16-bit zero.
func (e Encoding) terminator() []byte {
	if e == EncodingUTF16 || e == EncodingUTF16BE {
		return []byte{0, 0}
	}
	return []byte{0}
}

// decode converts raw frame text in e to a Go string, dropping any
// trailing terminator.
func (e Encoding) decode(b []byte) (string, error) {
	b = trimTerminator(b, e)

	var dec *encoding.Decoder
	switch e {
	case EncodingISO88591:
		dec = charmap.ISO8859_1.NewDecoder()
	case EncodingUTF16:
		dec = utf16in.NewDecoder()
	case EncodingUTF16BE:
		dec = utf16be.NewDecoder()
	case EncodingUTF8:
		return string(b), nil
	default:
		return "", InvalidEncoding{byte(e)}
	}

	out, err := dec.Bytes(b)
	if err != nil {
		return "", MalformedContainer{Reason: "undecodable text payload"}
	}
	return string(out), nil
}

// encodeText renders s in e. The writer only ever produces UTF-16 with
// BOM (v2.3 targets) and UTF-8 (v2.4 targets); ISO-8859-1 remains for
// the fields the format pins to Latin-1, such as MIME types.
func encodeText(s string, e Encoding) []byte {
	switch e {
	case EncodingUTF16:
		out, _ := utf16out.NewEncoder().Bytes([]byte(s))
		return out
	case EncodingISO88591:
		enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
		out, _ := enc.Bytes([]byte(s))
		return out
	default:
		return []byte(s)
	}
}

// splitTerm splits data into the part before the first terminator of e
// and the part after it. UTF-16 payloads are scanned on 16-bit
// boundaries so that a code unit with a zero byte cannot be mistaken
// for a terminator.
func splitTerm(data []byte, e Encoding) (before, after []byte, found bool) {
	if len(e.terminator()) == 1 {
		if i := bytes.IndexByte(data, 0); i >= 0 {
			return data[:i], data[i+1:], true
		}
		return data, nil, false
	}

	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			return data[:i], data[i+2:], true
		}
	}
	return data, nil, false
}

func trimTerminator(b []byte, e Encoding) []byte {
	n := len(e.terminator())
	for len(b) >= n && allZero(b[len(b)-n:]) {
		b = b[:len(b)-n]
	}
	return b
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
