package mcpserver

// EntryFormatContract describes how mood entries are stored and which values
// save_entry accepts.
const EntryFormatContract = `# MoodMate Entry Format

The mood log is a single JSON array stored under the key ` + "`moodNotes`" + `.
Entries are kept in the order they were saved and are never edited or removed.

## Entry

` + "```" + `json
{
  "emoji": "😊",
  "text": "Good day",
  "date": "March 15, 2024",
  "temperature": "27°C"
}
` + "```" + `

## Rules

1. **emoji** is one of 😊 😐 😢 😡 😄. Anything else is rejected with
   "Please select an emoji.".
2. **text** must contain something other than whitespace, otherwise the save
   is rejected with "Please write a note.". It is stored as typed.
3. **date** is written in long US English form ("January 2, 2006"). The
   save_entry tool takes it as YYYY-MM-DD and defaults to today.
4. **temperature** is filled in by the server: the last reading at the
   current location rounded to whole degrees Celsius ("27°C"), or
   "Temperature not available" when there is no reading.
`
