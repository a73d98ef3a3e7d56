package id3

import (
	"bytes"
	"strings"
	"testing"
)

func countFrames(t *Tag, id FrameType) int {
	n := 0
	for _, f := range t.Frames {
		if f.ID() == id {
			n++
		}
	}
	return n
}

func TestLastWriteWins(t *testing.T) {
	tag := NewTag()
	tag.SetField("title", "first")
	tag.SetField("title", "second")

	if n := countFrames(tag, frameTitle); n != 1 {
		t.Fatalf("expected exactly one TIT2 frame, got %d", n)
	}
	if got := tag.Common().Title; got != "second" {
		t.Errorf("title: %q", got)
	}
}

func TestSetFieldCollapsesDuplicates(t *testing.T) {
	// Files in the wild carry duplicate text frames; a set must leave
	// exactly one, in the first one's position.
	tag := NewTag()
	tag.Frames = append(tag.Frames,
		newTextFrame(frameTitle, "one"),
		newTextFrame(frameArtist, "somebody"),
		newTextFrame(frameTitle, "two"),
	)

	tag.SetField("title", "three")

	if n := countFrames(tag, frameTitle); n != 1 {
		t.Fatalf("expected one TIT2 frame, got %d", n)
	}
	if tag.Frames[0].Value() != "three" {
		t.Errorf("expected replacement in place, frames: %v", tag.Frames)
	}
}

func TestUnknownFieldIsNoop(t *testing.T) {
	tag := NewTag()
	tag.SetField("title", "kept")
	tag.SetField("bpm", "140")
	tag.SetField("", "x")

	if len(tag.Frames) != 1 {
		t.Fatalf("unexpected frames: %v", tag.Frames)
	}
	if got := tag.Common().Title; got != "kept" {
		t.Errorf("title: %q", got)
	}
}

func TestLegacyYearSync(t *testing.T) {
	tag := NewTag()

	tag.SetField("date", "1999")
	if got := tag.text(frameDate); got != "1999" {
		t.Errorf("TDRC: %q", got)
	}
	if got := tag.text(frameYear); got != "1999" {
		t.Errorf("TYER: %q", got)
	}

	// A longer date updates TDRC but leaves the legacy year stale.
	tag.SetField("date", "1999-05-02")
	if got := tag.text(frameDate); got != "1999-05-02" {
		t.Errorf("TDRC: %q", got)
	}
	if got := tag.text(frameYear); got != "1999" {
		t.Errorf("TYER: %q", got)
	}

	tag.SetField("date", "199x")
	if got := tag.text(frameYear); got != "1999" {
		t.Errorf("TYER after non-digit value: %q", got)
	}
}

func TestDateFallsBackToLegacyYear(t *testing.T) {
	tag := NewTag()
	tag.Frames = append(tag.Frames, newTextFrame(frameYear, "1987"))

	if got := tag.Common().Date; got != "1987" {
		t.Errorf("date: %q", got)
	}
}

func TestCommentSlotSelection(t *testing.T) {
	tag := NewTag()
	tag.Frames = append(tag.Frames,
		CommentFrame{FrameHeader: FrameHeader{id: frameComment}, Language: "deu", Text: "deutsch"},
		CommentFrame{FrameHeader: FrameHeader{id: frameComment}, Language: "eng", Description: "liner notes", Text: "described"},
		CommentFrame{FrameHeader: FrameHeader{id: frameComment}, Language: "ENG", Text: "english slot"},
	)

	if got := tag.Common().Comment; got != "english slot" {
		t.Fatalf("comment: %q", got)
	}

	// Mutating the slot must not touch the other frames.
	tag.SetField("comment", "updated")
	if got := tag.Common().Comment; got != "updated" {
		t.Errorf("comment: %q", got)
	}
	if n := countFrames(tag, frameComment); n != 3 {
		t.Errorf("expected 3 COMM frames, got %d", n)
	}
	if first := tag.Frames[0].(CommentFrame); first.Text != "deutsch" {
		t.Errorf("foreign comment clobbered: %+v", first)
	}
}

func TestCommentSlotAcceptsTwoLetterLanguage(t *testing.T) {
	tag := NewTag()
	tag.Frames = append(tag.Frames,
		CommentFrame{FrameHeader: FrameHeader{id: frameComment}, Language: "en\x00", Text: "short code"},
	)

	if got := tag.Common().Comment; got != "short code" {
		t.Errorf("comment: %q", got)
	}
}

func TestLyricsSlotIndependentOfComment(t *testing.T) {
	tag := NewTag()
	tag.SetField("comment", "a comment")
	tag.SetField("lyrics", "some lyrics")

	v := tag.Common()
	if v.Comment != "a comment" || v.Lyrics != "some lyrics" {
		t.Errorf("got %q / %q", v.Comment, v.Lyrics)
	}
	if countFrames(tag, frameComment) != 1 || countFrames(tag, frameLyrics) != 1 {
		t.Errorf("frames: %v", tag.Frames)
	}
}

func TestPictureReplaceByKind(t *testing.T) {
	front := []byte{1, 1, 1}
	back := []byte{2, 2, 2}
	newFront := []byte{3, 3, 3}

	tag := NewTag()
	if err := tag.SetPicture("front", "image/jpeg", front); err != nil {
		t.Fatal(err)
	}
	if err := tag.SetPicture("back", "image/png", back); err != nil {
		t.Fatal(err)
	}
	if err := tag.SetPicture("front", "image/webp", newFront); err != nil {
		t.Fatal(err)
	}

	b, ok := tag.Picture("back")
	if !ok || !bytes.Equal(b.Data, back) || b.MIMEType != "image/png" {
		t.Errorf("back cover disturbed: %+v", b)
	}
	f, ok := tag.Picture("front")
	if !ok || !bytes.Equal(f.Data, newFront) || f.MIMEType != "image/webp" {
		t.Errorf("front cover not replaced: %+v", f)
	}
	if n := countFrames(tag, framePicture); n != 2 {
		t.Errorf("expected 2 APIC frames, got %d", n)
	}
}

func TestRemoveOneVsAll(t *testing.T) {
	tag := NewTag()
	tag.SetPicture("front", "image/jpeg", []byte{1})
	tag.SetPicture("back", "image/jpeg", []byte{2})

	if n := tag.RemovePicture("front"); n != 1 {
		t.Fatalf("removed %d", n)
	}
	if _, ok := tag.Picture("back"); !ok {
		t.Error("back cover should survive")
	}
	if _, ok := tag.Picture("front"); ok {
		t.Error("front cover should be gone")
	}

	tag.SetPicture("front", "image/jpeg", []byte{3})
	if n := tag.RemovePicture("all"); n != 2 {
		t.Fatalf("removed %d", n)
	}
	if n := tag.RemovePicture(""); n != 0 {
		t.Errorf("removed %d from empty tag", n)
	}
	if countFrames(tag, framePicture) != 0 {
		t.Error("pictures left behind")
	}
}

func TestRemovePreservesFrameOrder(t *testing.T) {
	tag := NewTag()
	tag.SetField("title", "t")
	tag.SetPicture("front", "image/jpeg", []byte{1})
	tag.SetField("artist", "a")
	tag.SetPicture("back", "image/jpeg", []byte{2})

	tag.RemovePicture("front")

	var ids []string
	for _, f := range tag.Frames {
		ids = append(ids, string(f.ID()))
	}
	if got := strings.Join(ids, ","); got != "TIT2,TPE1,APIC" {
		t.Errorf("frame order: %s", got)
	}
}

func TestUnknownPictureKindDefaultsToFront(t *testing.T) {
	tag := NewTag()
	tag.SetPicture("banana", "image/jpeg", []byte{7})

	p, ok := tag.Picture("front")
	if !ok || !bytes.Equal(p.Data, []byte{7}) {
		t.Errorf("expected the picture under the front code, got %+v", p)
	}
	if p.PictureType != PictureFrontCover {
		t.Errorf("type code: %d", p.PictureType)
	}
}

func TestSetPictureRejectsUnknownMIME(t *testing.T) {
	tag := NewTag()
	if err := tag.SetPicture("front", "application/pdf", []byte{1}); err == nil {
		t.Fatal("expected an error for a non-image MIME type")
	}
	if len(tag.Frames) != 0 {
		t.Error("rejected picture was still added")
	}
}

func TestMIMEForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".jpg", "image/jpeg"},
		{"jpeg", "image/jpeg"},
		{".PNG", "image/png"},
		{".webp", "image/webp"},
		{".bmp", "image/bmp"},
		{".gif", "image/gif"},
		{".tiff", "image/jpeg"},
		{"", "image/jpeg"},
	}

	for _, test := range tests {
		if got := MIMEForExtension(test.ext); got != test.want {
			t.Errorf("%q: got %q, want %q", test.ext, got, test.want)
		}
	}
}

func TestCoverDataURL(t *testing.T) {
	c := &CoverImage{MIMEType: "image/png", Data: []byte{1, 2, 3}}
	if got := c.DataURL(); got != "data:image/png;base64,AQID" {
		t.Errorf("data URL: %q", got)
	}
}
