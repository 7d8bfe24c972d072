package stockwatch

// Extractor turns the HTML of a product page into a snapshot.
// Implementations own all knowledge of the store's page markup.
type Extractor interface {
	// Extract parses html and returns the observed product state.
	// Missing markers yield AvailabilityIndeterminate rather than an error;
	// an error means the document could not be parsed at all.
	Extract(html string) (*Snapshot, error)
}
