package id3

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Frame IDs behind the common fields.
const (
	frameTitle       FrameType = "TIT2"
	frameArtist      FrameType = "TPE1"
	frameAlbum       FrameType = "TALB"
	frameAlbumArtist FrameType = "TPE2"
	frameComposer    FrameType = "TCOM"
	frameGenre       FrameType = "TCON"
	frameDate        FrameType = "TDRC"
	frameYear        FrameType = "TYER"
	frameTrack       FrameType = "TRCK"
	frameDisc        FrameType = "TPOS"
	frameComment     FrameType = "COMM"
	frameLyrics      FrameType = "USLT"
	framePicture     FrameType = "APIC"
)

// commonFields is the closed dispatch table for SetField. Date,
// comment and lyrics have bespoke handling and are dispatched
// separately.
var commonFields = map[string]FrameType{
	"title":       frameTitle,
	"artist":      frameArtist,
	"album":       frameAlbum,
	"albumartist": frameAlbumArtist,
	"composer":    frameComposer,
	"genre":       frameGenre,
	"track":       frameTrack,
	"disc":        frameDisc,
}

// pictureKinds maps the facade's cover kinds to APIC type codes.
var pictureKinds = map[string]PictureType{
	"front": PictureFrontCover,
	"back":  PictureBackCover,
}

// pictureKind resolves a kind name. Unknown kinds deliberately fall
// back to the front cover code; existing callers depend on that.
func pictureKind(kind string) PictureType {
	if code, ok := pictureKinds[kind]; ok {
		return code
	}
	return PictureFrontCover
}

var allowedImageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// MIMEForExtension maps an image file extension, with or without the
// leading dot, to the MIME type the facade accepts. Unknown extensions
// default to JPEG.
func MIMEForExtension(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "bmp":
		return "image/bmp"
	default:
		return "image/jpeg"
	}
}

// CoverImage is a picture rendered for the common view.
type CoverImage struct {
	MIMEType string
	Data     []byte
}

// DataURL renders the image as an inline base64 data URL.
func (c *CoverImage) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", c.MIMEType, base64.StdEncoding.EncodeToString(c.Data))
}

// CommonView is the flattened projection of a container's frames: one
// string per recognized field, empty when the frame is absent. It is
// recomputed on every read and never fails.
type CommonView struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Composer    string
	Genre       string
	Date        string
	Track       string
	Disc        string
	Comment     string
	Lyrics      string

	FrontCover *CoverImage
	BackCover  *CoverImage
}

// Common builds the common view of the container.
func (t *Tag) Common() CommonView {
	// Prefer the recording-time frame, fall back to the legacy year.
	date := t.text(frameDate)
	if date == "" {
		date = t.text(frameYear)
	}

	return CommonView{
		Title:       t.text(frameTitle),
		Artist:      t.text(frameArtist),
		Album:       t.text(frameAlbum),
		AlbumArtist: t.text(frameAlbumArtist),
		Composer:    t.text(frameComposer),
		Genre:       t.text(frameGenre),
		Date:        date,
		Track:       t.text(frameTrack),
		Disc:        t.text(frameDisc),
		Comment:     t.slotText(frameComment),
		Lyrics:      t.slotText(frameLyrics),
		FrontCover:  t.cover("front"),
		BackCover:   t.cover("back"),
	}
}

// SetField updates one common field in place. Unrecognized field names
// are ignored without error, mirroring a form-style update where
// unknown keys carry no meaning.
func (t *Tag) SetField(field, value string) {
	switch name := strings.ToLower(field); name {
	case "date":
		t.setText(frameDate, value)
		// Only an exactly-four-digit value propagates into the
		// legacy year frame; a year inside a longer date string
		// leaves TYER alone, stale or not.
		if isYear(value) {
			t.setText(frameYear, value)
		}
	case "comment":
		t.setSlot(frameComment, value)
	case "lyrics":
		t.setSlot(frameLyrics, value)
	default:
		if id, ok := commonFields[name]; ok {
			t.setText(id, value)
		}
	}
}

// Picture returns the first attached picture of the given kind.
func (t *Tag) Picture(kind string) (PictureFrame, bool) {
	code := pictureKind(kind)
	for _, f := range t.Frames {
		if p, ok := f.(PictureFrame); ok && p.PictureType == code {
			return p, true
		}
	}
	return PictureFrame{}, false
}

// SetPicture attaches an image as the given cover kind, replacing any
// existing pictures of the same type code and leaving other kinds
// untouched. The MIME type must be one of the allow-listed image
// types; resolving it from a filename is the caller's job.
func (t *Tag) SetPicture(kind, mimeType string, data []byte) error {
	if !allowedImageMIMEs[mimeType] {
		return fmt.Errorf("unsupported image MIME type %q", mimeType)
	}

	code := pictureKind(kind)
	kept := t.Frames[:0]
	for _, f := range t.Frames {
		if p, ok := f.(PictureFrame); ok && p.PictureType == code {
			continue
		}
		kept = append(kept, f)
	}

	t.Frames = append(kept, PictureFrame{
		FrameHeader: FrameHeader{id: framePicture},
		MIMEType:    mimeType,
		PictureType: code,
		Data:        data,
	})
	return nil
}

// RemovePicture removes attached pictures and reports how many frames
// went. An empty kind or "all" removes every picture; any other kind
// removes only frames of its type code, keeping the rest in their
// original relative order.
func (t *Tag) RemovePicture(kind string) int {
	all := kind == "" || kind == "all"
	code := pictureKind(kind)

	removed := 0
	kept := t.Frames[:0]
	for _, f := range t.Frames {
		if p, ok := f.(PictureFrame); ok && (all || p.PictureType == code) {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	t.Frames = kept

	return removed
}

func (t *Tag) text(id FrameType) string {
	for _, f := range t.Frames {
		if tf, ok := f.(TextFrame); ok && tf.id == id {
			return tf.Text
		}
	}
	return ""
}

// setText replaces the first frame of the given ID and drops later
// duplicates, so a set always leaves exactly one frame per key.
func (t *Tag) setText(id FrameType, value string) {
	replaced := false
	kept := t.Frames[:0]
	for _, f := range t.Frames {
		if f.ID() != id {
			kept = append(kept, f)
			continue
		}
		if !replaced {
			kept = append(kept, newTextFrame(id, value))
			replaced = true
		}
	}
	if !replaced {
		kept = append(kept, newTextFrame(id, value))
	}
	t.Frames = kept
}

// englishSlot reports whether a comment or lyrics frame occupies the
// slot the common view exposes: English language, empty description.
func englishSlot(lang, desc string) bool {
	l := strings.ToLower(strings.TrimRight(lang, " \x00"))
	return (l == "eng" || l == "en") && desc == ""
}

// slotText returns the text of the English comment or lyrics slot.
// Frames in other languages or with descriptions stay invisible here.
func (t *Tag) slotText(id FrameType) string {
	for _, f := range t.Frames {
		switch c := f.(type) {
		case CommentFrame:
			if id == frameComment && englishSlot(c.Language, c.Description) {
				return c.Text
			}
		case LyricsFrame:
			if id == frameLyrics && englishSlot(c.Language, c.Description) {
				return c.Text
			}
		}
	}
	return ""
}

// setSlot updates the English slot in place when present, otherwise
// appends a fresh frame for it. Other language/description
// combinations are never touched.
func (t *Tag) setSlot(id FrameType, value string) {
	for i, f := range t.Frames {
		switch c := f.(type) {
		case CommentFrame:
			if id == frameComment && englishSlot(c.Language, c.Description) {
				c.Text = value
				t.Frames[i] = c
				return
			}
		case LyricsFrame:
			if id == frameLyrics && englishSlot(c.Language, c.Description) {
				c.Text = value
				t.Frames[i] = c
				return
			}
		}
	}

	header := FrameHeader{id: id}
	if id == frameLyrics {
		t.Frames = append(t.Frames, LyricsFrame{FrameHeader: header, Language: "eng", Text: value})
	} else {
		t.Frames = append(t.Frames, CommentFrame{FrameHeader: header, Language: "eng", Text: value})
	}
}

func (t *Tag) cover(kind string) *CoverImage {
	p, ok := t.Picture(kind)
	if !ok {
		return nil
	}
	return &CoverImage{MIMEType: p.MIMEType, Data: p.Data}
}

// isYear reports whether v is exactly four ASCII digits.
func isYear(v string) bool {
	if len(v) != 4 {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}
