// Package export renders the mood log as a fixed-layout printable document.
package export

import "github.com/starford/moodmate/internal/models"

// Filename is the name offered for the downloaded document.
const Filename = "mood_notes.pdf"

// Title heads the first page.
const Title = "Mood Notes"

// Geometry of the A4 page in millimetres.
const (
	FontSize     = 12.0
	TitleX       = 10.0
	TitleY       = 10.0
	FirstRowY    = 20.0
	RowSpacing   = 10.0
	DateX        = 10.0
	TemperatureX = 60.0
	NoteX        = 140.0
	// MaxRowY is the lowest baseline a row may use before a page break.
	MaxRowY = 287.0
)

// Line is one piece of text placed on a page. Page numbers start at 1.
type Line struct {
	Page int
	X, Y float64
	Text string
}

// Row groups the three cells rendered for one entry.
type Row struct {
	Page        int
	Y           float64
	Date        string
	Temperature string
	Note        string
}

// Layout places every entry, in log order, one row per entry. The title is
// printed once on page 1. When the next row would fall below MaxRowY a new
// page starts and rows resume at FirstRowY.
func Layout(log models.MoodLog) []Row {
	rows := make([]Row, 0, len(log))
	page, y := 1, FirstRowY
	for _, e := range log {
		if y > MaxRowY {
			page++
			y = FirstRowY
		}
		rows = append(rows, Row{
			Page:        page,
			Y:           y,
			Date:        "Date: " + e.Date,
			Temperature: "Temperature: " + e.Temperature,
			Note:        "Note: " + e.Text,
		})
		y += RowSpacing
	}
	return rows
}

// Lines flattens the layout into positioned text, title first.
func Lines(log models.MoodLog) []Line {
	rows := Layout(log)
	out := make([]Line, 0, 1+3*len(rows))
	out = append(out, Line{Page: 1, X: TitleX, Y: TitleY, Text: Title})
	for _, r := range rows {
		out = append(out,
			Line{Page: r.Page, X: DateX, Y: r.Y, Text: r.Date},
			Line{Page: r.Page, X: TemperatureX, Y: r.Y, Text: r.Temperature},
			Line{Page: r.Page, X: NoteX, Y: r.Y, Text: r.Note},
		)
	}
	return out
}

// Pages returns how many pages the log needs.
func Pages(log models.MoodLog) int {
	rows := Layout(log)
	if len(rows) == 0 {
		return 1
	}
	return rows[len(rows)-1].Page
}
