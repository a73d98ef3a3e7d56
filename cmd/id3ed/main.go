// Command id3ed edits ID3v2 tags from the command line.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	id3 "github.com/UnoMo/mp3-web-tagger"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// commonFieldNames is the set of flags `set` accepts, in display order.
var commonFieldNames = []string{
	"title", "artist", "album", "albumartist", "composer",
	"genre", "date", "track", "disc", "comment", "lyrics",
}

func main() {
	root := &cobra.Command{
		Use:           "id3ed",
		Short:         "Read and edit ID3v2 tags in MP3 files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log parse diagnostics")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log = log.Level(zerolog.DebugLevel)
			id3.Log = log
		} else {
			log = log.Level(zerolog.InfoLevel)
		}
	}

	root.AddCommand(newShowCmd(), newSetCmd(), newCoverCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}

// targetVersion maps the --version flag to a container version. Values
// the writer cannot emit are passed through so Save rejects them with
// its own error.
func targetVersion(minor int) id3.Version {
	return id3.Version(minor << 8)
}

func newShowCmd() *cobra.Command {
	var showFrames bool

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print the common tag fields of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := id3.ParseFile(args[0])
			if err != nil {
				return err
			}

			v := tag.Common()
			values := []string{
				v.Title, v.Artist, v.Album, v.AlbumArtist, v.Composer,
				v.Genre, v.Date, v.Track, v.Disc, v.Comment, v.Lyrics,
			}
			for i, name := range commonFieldNames {
				fmt.Printf("%-12s %s\n", name+":", values[i])
			}
			if v.FrontCover != nil {
				fmt.Printf("%-12s %s, %d bytes\n", "front cover:", v.FrontCover.MIMEType, len(v.FrontCover.Data))
			}
			if v.BackCover != nil {
				fmt.Printf("%-12s %s, %d bytes\n", "back cover:", v.BackCover.MIMEType, len(v.BackCover.Data))
			}

			if showFrames {
				fmt.Println()
				for _, frame := range tag.Frames {
					fmt.Printf("%s (%s): %q\n", frame.ID(), frame.ID().String(), frame.Value())
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showFrames, "frames", false, "also list every frame in the container")
	return cmd
}

func newSetCmd() *cobra.Command {
	var minor int

	cmd := &cobra.Command{
		Use:   "set FILE",
		Short: "Update tag fields and save the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			tag, err := id3.ParseFile(path)
			if err != nil {
				return err
			}

			changed := 0
			for _, name := range commonFieldNames {
				if !cmd.Flags().Changed(name) {
					continue
				}
				value, _ := cmd.Flags().GetString(name)
				tag.SetField(name, strings.TrimSpace(value))
				changed++
			}
			if changed == 0 {
				return fmt.Errorf("no fields given; pass at least one of --%s", strings.Join(commonFieldNames, ", --"))
			}

			if err := tag.Save(path, targetVersion(minor)); err != nil {
				return err
			}
			log.Info().Str("file", path).Int("fields", changed).Msg("tags saved")
			return nil
		},
	}

	for _, name := range commonFieldNames {
		cmd.Flags().String(name, "", "set the "+name+" field")
	}
	cmd.Flags().IntVar(&minor, "version", 3, "ID3v2 minor version to write (3 or 4)")
	return cmd
}

func newCoverCmd() *cobra.Command {
	cover := &cobra.Command{
		Use:   "cover",
		Short: "Manage attached cover images",
	}
	cover.AddCommand(newCoverAddCmd(), newCoverRemoveCmd(), newCoverExtractCmd())
	return cover
}

func newCoverAddCmd() *cobra.Command {
	var kind string
	var minor int

	cmd := &cobra.Command{
		Use:   "add FILE IMAGE",
		Short: "Attach an image as front or back cover",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, imagePath := args[0], args[1]

			data, err := os.ReadFile(imagePath)
			if err != nil {
				return err
			}

			mime := mimetype.Detect(data).String()
			if !strings.HasPrefix(mime, "image/") {
				mime = id3.MIMEForExtension(filepath.Ext(imagePath))
			}
			log.Debug().Str("image", imagePath).Str("mime", mime).Msg("detected image type")

			tag, err := id3.ParseFile(path)
			if err != nil {
				return err
			}
			if err := tag.SetPicture(kind, mime, data); err != nil {
				return err
			}
			if err := tag.Save(path, targetVersion(minor)); err != nil {
				return err
			}
			log.Info().Str("file", path).Str("kind", kind).Msg("cover updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "front", "cover kind (front or back)")
	cmd.Flags().IntVar(&minor, "version", 3, "ID3v2 minor version to write (3 or 4)")
	return cmd
}

func newCoverRemoveCmd() *cobra.Command {
	var kind string
	var minor int

	cmd := &cobra.Command{
		Use:   "remove FILE",
		Short: "Remove attached cover images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			tag, err := id3.ParseFile(path)
			if err != nil {
				return err
			}

			n := tag.RemovePicture(kind)
			if n > 0 {
				if err := tag.Save(path, targetVersion(minor)); err != nil {
					return err
				}
			}
			log.Info().Str("file", path).Int("removed", n).Msg("cover images removed")
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "all", "cover kind to remove (front, back or all)")
	cmd.Flags().IntVar(&minor, "version", 3, "ID3v2 minor version to write (3 or 4)")
	return cmd
}

func newCoverExtractCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Write the front (or, failing that, back) cover to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			tag, err := id3.ParseFile(path)
			if err != nil {
				return err
			}

			for _, kind := range []string{"front", "back"} {
				p, ok := tag.Picture(kind)
				if !ok {
					continue
				}

				name := out
				if name == "" {
					base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
					name = fmt.Sprintf("%s-%s%s", base, kind, extensionForMIME(p.MIMEType))
				}
				if err := os.WriteFile(name, p.Data, 0o644); err != nil {
					return err
				}
				log.Info().Str("cover", name).Str("mime", p.MIMEType).Msg("cover extracted")
				return nil
			}
			return fmt.Errorf("no cover image found in %s", path)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file name")
	return cmd
}

func extensionForMIME(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ".jpg"
	}
}
