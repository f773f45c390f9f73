package export

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/starford/moodmate/internal/models"
)

//go:embed fonts/DejaVuSansCondensed.ttf
var fontTTF []byte

const fontFamily = "DejaVu"

// WritePDF renders the log as an A4 PDF to w.
//
// Text is set in an embedded UTF-8 font, so notes in any script of the Basic
// Multilingual Plane keep their characters. Runes above U+FFFF, such as most
// emoji, cannot be encoded by the PDF writer and are printed as U+FFFD.
func WritePDF(w io.Writer, log models.MoodLog) error {
	return writePDF(w, log, true)
}

func writePDF(w io.Writer, log models.MoodLog, compress bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle(Title, true)
	pdf.SetCreator("moodmate", true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontTTF)
	pdf.SetFont(fontFamily, "", FontSize)

	page := 0
	for _, l := range Lines(log) {
		for page < l.Page {
			pdf.AddPage()
			page++
		}
		pdf.Text(l.X, l.Y, printable(l.Text))
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: render pdf: %w", err)
	}
	return nil
}

// printable replaces runes the PDF writer cannot encode.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return utf8.RuneError
		}
		return r
	}, s)
}
