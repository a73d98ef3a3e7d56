/*
Package id3 reads, edits and writes ID3v2 tag containers in MP3 files.

Supported versions

The codec reads v2.3 and v2.4 containers and can write either; v2.3 is
the default target because it remains the revision most players agree
on. Text read from legacy encodings is normalized on save: a v2.3
target writes UTF-16 with BOM, a v2.4 target writes UTF-8.

A file without any container parses to an empty tag; absence of a tag
is a normal state, never an error.

Accessing and manipulating frames

There are two levels of access. The common view flattens the container
into one value per recognized field (title, artist, album and so on)
plus the front and back cover images:

	tag, err := id3.ParseFile("song.mp3")
	...
	v := tag.Common()
	fmt.Println(v.Title, v.Artist)

Mutation goes through SetField, SetPicture and RemovePicture, and Save
rewrites only the container region of the file, leaving the audio
payload byte-identical:

	tag.SetField("title", "New Title")
	err = tag.Save("song.mp3", id3.DefaultVersion)

Frames the codec does not interpret are preserved as opaque blobs and
written back verbatim, so editing the common fields never drops data.
The lower level is the Frames slice itself, which holds the typed
frames in their on-disk order.
*/
package id3
