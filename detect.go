package stockwatch

// Message is a formatted notification ready for delivery.
type Message struct {
	// Link is the product page the message is about.
	// Empty for messages that cover several links.
	Link string

	// Text uses the chat HTML subset (<a href>, <b>).
	Text string
}

// IsRestock reports whether the change from previous to current is a
// restock transition. Only SoldOut followed by Available qualifies; first
// observations, recoveries from errors and indeterminate pages do not.
func IsRestock(previous, current Snapshot) bool {
	return previous.State == AvailabilitySoldOut && current.State == AvailabilityAvailable
}

// Evaluate compares two snapshots of the same link and returns the restock
// notification when the change is a restock transition. It performs no I/O.
func Evaluate(link string, previous, current Snapshot) (*Message, bool) {
	if !IsRestock(previous, current) {
		return nil, false
	}
	return &Message{
		Link: link,
		Text: FormatRestock(link, current),
	}, true
}
