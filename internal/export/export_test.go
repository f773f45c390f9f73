package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/starford/moodmate/internal/models"
)

func sampleLog(n int) models.MoodLog {
	log := make(models.MoodLog, n)
	for i := range log {
		log[i] = models.Entry{
			Emoji:       "😊",
			Text:        fmt.Sprintf("note %d", i),
			Date:        fmt.Sprintf("March %d, 2024", i+1),
			Temperature: "27°C",
		}
	}
	return log
}

func TestLines_OnePerEntryInOrder(t *testing.T) {
	log := models.MoodLog{
		{Emoji: "😊", Text: "Good day", Date: "March 15, 2024", Temperature: "27°C"},
		{Emoji: "😢", Text: "Rain again", Date: "March 16, 2024", Temperature: "Temperature not available"},
	}
	lines := Lines(log)
	if len(lines) != 1+3*len(log) {
		t.Fatalf("lines = %d", len(lines))
	}
	if lines[0].Text != "Mood Notes" || lines[0].X != 10 || lines[0].Y != 10 {
		t.Errorf("title line = %+v", lines[0])
	}

	rows := Layout(log)
	if len(rows) != len(log) {
		t.Fatalf("rows = %d, want %d", len(rows), len(log))
	}
	for i, e := range log {
		r := rows[i]
		if !strings.Contains(r.Date, e.Date) || !strings.Contains(r.Temperature, e.Temperature) || !strings.Contains(r.Note, e.Text) {
			t.Errorf("row %d = %+v does not carry entry %+v verbatim", i, r, e)
		}
		if r.Y != 20+float64(i)*10 {
			t.Errorf("row %d y = %v", i, r.Y)
		}
	}
	want := []Line{
		{Page: 1, X: 10, Y: 20, Text: "Date: March 15, 2024"},
		{Page: 1, X: 60, Y: 20, Text: "Temperature: 27°C"},
		{Page: 1, X: 140, Y: 20, Text: "Note: Good day"},
	}
	for i, w := range want {
		if lines[1+i] != w {
			t.Errorf("line %d = %+v, want %+v", 1+i, lines[1+i], w)
		}
	}
}

func TestLayout_PageBreak(t *testing.T) {
	// Rows sit at 20, 30, ... 280 on page one: 27 rows.
	log := sampleLog(30)
	rows := Layout(log)
	for i, r := range rows {
		if r.Y > MaxRowY {
			t.Fatalf("row %d overflows page: y = %v", i, r.Y)
		}
	}
	if rows[26].Page != 1 || rows[26].Y != 280 {
		t.Errorf("row 26 = %+v", rows[26])
	}
	if rows[27].Page != 2 || rows[27].Y != FirstRowY {
		t.Errorf("row 27 = %+v, want start of page 2", rows[27])
	}
	if Pages(log) != 2 {
		t.Errorf("Pages = %d", Pages(log))
	}
	for i, r := range rows {
		if r.Note != fmt.Sprintf("Note: note %d", i) {
			t.Fatalf("row %d out of order: %q", i, r.Note)
		}
	}
}

func TestPages_Empty(t *testing.T) {
	if Pages(nil) != 1 {
		t.Error("empty log still renders one page")
	}
	if len(Lines(nil)) != 1 {
		t.Error("empty log renders only the title")
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleLog(40)); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", out[:min(len(out), 16)])
	}
	if !bytes.Contains(out, []byte("%%EOF")) {
		t.Error("output missing EOF marker")
	}
}

func TestWritePDF_EmptyLog(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, models.MoodLog{}); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty output")
	}
}

// pdfString encodes s the way the content stream carries UTF-8 font text.
func pdfString(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func TestWritePDF_KeepsNonLatinText(t *testing.T) {
	log := models.MoodLog{
		{Emoji: "😊", Text: "今日 Привет café", Date: "March 15, 2024", Temperature: "27°C"},
		{Emoji: "😄", Text: "party 😊", Date: "March 16, 2024", Temperature: "30°C"},
	}
	var buf bytes.Buffer
	if err := writePDF(&buf, log, false); err != nil {
		t.Fatalf("writePDF: %v", err)
	}
	out := buf.Bytes()
	for _, want := range []string{"Note: 今日 Привет café", "Temperature: 27°C", "Note: party \uFFFD"} {
		if !bytes.Contains(out, pdfString(want)) {
			t.Errorf("output does not carry %q", want)
		}
	}
}

func TestPrintable(t *testing.T) {
	if got := printable("今日 café 27°C"); got != "今日 café 27°C" {
		t.Errorf("BMP text changed: %q", got)
	}
	if got := printable("ok 😊"); got != "ok \uFFFD" {
		t.Errorf("got %q", got)
	}
}
