package id3

import (
	"bytes"
	"testing"
)

var (
	utf8TestString  = "Ein etwas kürzerer Text mit wenigen Umlauten: äöüß äöüß"
	isoTestString   = []byte("Ein etwas k\xFCrzerer Text mit wenigen Umlauten: \xE4\xF6\xFC\xDF \xE4\xF6\xFC\xDF")
	utf16TestString = []byte{254, 255, 0, 74, 0,
		117, 0, 115, 0, 116, 0, 32, 0, 97, 0, 32, 0, 116, 0, 101, 0, 115,
		0, 116, 0, 58, 0, 32, 0, 228, 0, 252, 0, 246, 0, 32, 101, 229,
		103, 44, 138, 158}
)

func TestISO88591Decode(t *testing.T) {
	out, err := EncodingISO88591.decode(isoTestString)
	if err != nil {
		t.Fatal(err)
	}
	if out != utf8TestString {
		t.Errorf("Expected: %s - Got: %s", utf8TestString, out)
	}
}

func TestUTF16Decode(t *testing.T) {
	want := "Just a test: äüö 日本語"

	out, err := EncodingUTF16.decode(utf16TestString)
	if err != nil {
		t.Fatal(err)
	}
	if out != want {
		t.Errorf("Expected: %s - Got: %s", want, out)
	}
}

func TestUTF16LEDecode(t *testing.T) {
	in := []byte{255, 254, 74, 0, 117, 0, 115, 0, 116, 0, 32, 0, 97,
		0, 32, 0, 116, 0, 101, 0, 115, 0, 116, 0, 58, 0, 32, 0, 228, 0,
		252, 0, 246, 0, 32, 0, 229, 101, 44, 103, 158, 138}
	want := "Just a test: äüö 日本語"

	out, err := EncodingUTF16.decode(in)
	if err != nil {
		t.Fatal(err)
	}
	if out != want {
		t.Errorf("Expected: %s - Got: %s", want, out)
	}
}

func TestUTF16BEDecode(t *testing.T) {
	// Same payload as the BOM test, minus the BOM.
	out, err := EncodingUTF16BE.decode(utf16TestString[2:])
	if err != nil {
		t.Fatal(err)
	}
	if out != "Just a test: äüö 日本語" {
		t.Errorf("Got: %s", out)
	}
}

func TestDecodeDropsTerminator(t *testing.T) {
	out, err := EncodingUTF8.decode([]byte("hello\x00"))
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello" {
		t.Errorf("Got: %q", out)
	}

	out, err = EncodingUTF16.decode(append(append([]byte{}, utf16TestString...), 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if out != "Just a test: äüö 日本語" {
		t.Errorf("Got: %q", out)
	}
}

func TestInvalidEncodingByte(t *testing.T) {
	_, err := Encoding(9).decode([]byte("x"))
	if err == nil {
		t.Fatal("expected error for encoding byte 9")
	}
	if inv, ok := err.(InvalidEncoding); !ok || inv.Byte != 9 {
		t.Errorf("expected InvalidEncoding{9}, got %#v", err)
	}
}

func TestEncodeUTF16RoundTrip(t *testing.T) {
	raw := encodeText(utf8TestString, EncodingUTF16)
	if raw[0] != 0xFF || raw[1] != 0xFE {
		t.Fatalf("expected little endian BOM, got % x", raw[:2])
	}

	out, err := EncodingUTF16.decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if out != utf8TestString {
		t.Errorf("Expected: %s - Got: %s", utf8TestString, out)
	}
}

func TestEncodeISO88591(t *testing.T) {
	out := encodeText(utf8TestString, EncodingISO88591)
	if !bytes.Equal(out, isoTestString) {
		t.Errorf("Expected: % x - Got: % x", isoTestString, out)
	}
}

func TestSplitTermUTF16Alignment(t *testing.T) {
	// "Ā" is 0x01 0x00 in UTF-16BE; the zero byte straddling two code
	// units must not terminate the string.
	in := []byte{0x01, 0x00, 0x00, 0x41, 0x00, 0x00, 0x00, 0x42}
	before, after, found := splitTerm(in, EncodingUTF16BE)
	if !found {
		t.Fatal("terminator not found")
	}
	if !bytes.Equal(before, []byte{0x01, 0x00, 0x00, 0x41}) {
		t.Errorf("before: % x", before)
	}
	if !bytes.Equal(after, []byte{0x00, 0x42}) {
		t.Errorf("after: % x", after)
	}
}

func TestSplitTermSingleByte(t *testing.T) {
	before, after, found := splitTerm([]byte("desc\x00text"), EncodingUTF8)
	if !found || string(before) != "desc" || string(after) != "text" {
		t.Errorf("got %q / %q / %t", before, after, found)
	}

	before, after, found = splitTerm([]byte("no terminator"), EncodingUTF8)
	if found || string(before) != "no terminator" || after != nil {
		t.Errorf("got %q / %q / %t", before, after, found)
	}
}
