package driven

// PhotoStore saves and removes photo attachments for entries.
// Filenames follow the entry_{id}_{timestamp}_{index}.{ext} convention
// so a record's photos can always be matched back to it.
type PhotoStore interface {
	// Save writes the photo bytes and returns the stored filename.
	// index preserves the upload order within one attach operation;
	// originalName only contributes its extension.
	Save(entryID int64, index int, originalName string, data []byte) (string, error)

	// Remove deletes a stored photo by filename. Removing a file that
	// is already gone is not an error.
	Remove(filename string) error

	// Dir returns the directory photos are stored under.
	Dir() string
}
