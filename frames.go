package id3

// FrameNames maps frame IDs to their human readable descriptions.
var FrameNames = map[FrameType]string{
	"AENC": "Audio encryption",
	"APIC": "Attached picture",
	"COMM": "Comments",
	"GEOB": "General encapsulated object",
	"MCDI": "Music CD identifier",
	"PRIV": "Private frame",
	"PCNT": "Play counter",
	"POPM": "Popularimeter",

	"TALB": "Album/Movie/Show title",
	"TBPM": "BPM (beats per minute)",
	"TCOM": "Composer",
	"TCON": "Content type",
	"TCOP": "Copyright message",
	"TDRC": "Recording time",
	"TENC": "Encoded by",
	"TEXT": "Lyricist/Text writer",
	"TIT1": "Content group description",
	"TIT2": "Title/songname/content description",
	"TIT3": "Subtitle/Description refinement",
	"TKEY": "Initial key",
	"TLAN": "Language(s)",
	"TLEN": "Length",
	"TMED": "Media type",
	"TOAL": "Original album/movie/show title",
	"TOFN": "Original filename",
	"TOPE": "Original artist(s)/performer(s)",
	"TOWN": "File owner/licensee",
	"TPE1": "Lead performer(s)/Soloist(s)",
	"TPE2": "Band/orchestra/accompaniment",
	"TPE3": "Conductor/performer refinement",
	"TPE4": "Interpreted, remixed, or otherwise modified by",
	"TPOS": "Part of a set",
	"TPUB": "Publisher",
	"TRCK": "Track number/Position in set",
	"TSRC": "ISRC (international standard recording code)",
	"TSSE": "Software/Hardware and settings used for encoding",
	"TYER": "Year",
	"TXXX": "User defined text information frame",

	"UFID": "Unique file identifier",
	"USLT": "Unsynchronised lyric/text transcription",

	"WCOM": "Commercial information",
	"WCOP": "Copyright/Legal information",
	"WOAF": "Official audio file webpage",
	"WOAR": "Official artist/performer webpage",
	"WOAS": "Official audio source webpage",
	"WPUB": "Publishers official webpage",
	"WXXX": "User defined URL link frame",
}

// PictureTypes lists the APIC picture type enumeration by code.
var PictureTypes = []string{
	"Other",
	"32x32 pixels 'file icon' (PNG only)",
	"Other file icon",
	"Cover (front)",
	"Cover (back)",
	"Leaflet page",
	"Media (e.g. label side of CD)",
	"Lead artist/lead performer/soloist",
	"Artist/performer",
	"Conductor",
	"Band/Orchestra",
	"Composer",
	"Lyricist/text writer",
	"Recording Location",
	"During recording",
	"During performance",
	"Movie/video screen capture",
	"A bright coloured fish",
	"Illustration",
	"Band/artist logotype",
	"Publisher/Studio logotype",
}

type FrameHeader struct {
	id    FrameType
	flags FrameFlags
}

func (h FrameHeader) ID() FrameType       { return h.id }
func (h FrameHeader) Header() FrameHeader { return h }

// Frame is one typed metadata record inside a tag container.
type Frame interface {
	ID() FrameType
	Header() FrameHeader
	Value() string

	// body renders the frame payload, using enc for its textual parts.
	body(enc Encoding) []byte
}

// TextFrame is any T*** frame except TXXX. The codec only ever writes
// a single value per text frame.
type TextFrame struct {
	FrameHeader
	Text string
}

func newTextFrame(id FrameType, text string) TextFrame {
	return TextFrame{FrameHeader: FrameHeader{id: id}, Text: text}
}

func (f TextFrame) Value() string { return f.Text }

func (f TextFrame) body(enc Encoding) []byte {
	return concat([]byte{byte(enc)}, encodeText(f.Text, enc))
}

// CommentFrame is a COMM frame: a free-text note tagged with a
// language and a description.
type CommentFrame struct {
	FrameHeader
	Language    string
	Description string
	Text        string
}

func (f CommentFrame) Value() string { return f.Text }

func (f CommentFrame) body(enc Encoding) []byte {
	return concat(
		[]byte{byte(enc)},
		languageBytes(f.Language),
		encodeText(f.Description, enc), enc.terminator(),
		encodeText(f.Text, enc),
	)
}

// LyricsFrame is a USLT frame. Its wire layout matches CommentFrame.
type LyricsFrame struct {
	FrameHeader
	Language    string
	Description string
	Text        string
}

func (f LyricsFrame) Value() string { return f.Text }

func (f LyricsFrame) body(enc Encoding) []byte {
	return concat(
		[]byte{byte(enc)},
		languageBytes(f.Language),
		encodeText(f.Description, enc), enc.terminator(),
		encodeText(f.Text, enc),
	)
}

// PictureFrame is an APIC frame. The MIME type is always stored as
// ISO-8859-1 regardless of the frame's text encoding.
type PictureFrame struct {
	FrameHeader
	MIMEType    string
	PictureType PictureType
	Description string
	Data        []byte
}

func (f PictureFrame) Value() string { return f.MIMEType }

func (f PictureFrame) body(enc Encoding) []byte {
	return concat(
		[]byte{byte(enc)},
		encodeText(f.MIMEType, EncodingISO88591), []byte{0},
		[]byte{byte(f.PictureType)},
		encodeText(f.Description, enc), enc.terminator(),
		f.Data,
	)
}

// UnknownFrame preserves a frame the codec does not interpret. Its
// payload is carried verbatim so that re-serialization never drops
// data the facade doesn't understand.
type UnknownFrame struct {
	FrameHeader
	Data []byte
}

func (f UnknownFrame) Value() string { return string(f.Data) }

func (f UnknownFrame) body(Encoding) []byte { return f.Data }

// languageBytes clips or pads a language code to the three bytes the
// wire format reserves for it.
func languageBytes(s string) []byte {
	b := []byte(s)
	for len(b) < 3 {
		b = append(b, ' ')
	}
	return b[:3]
}
