package stockwatch

import (
	"html"
	"strings"
)

// LowStockMarker prefixes sizes that are running out.
const LowStockMarker = "🟡"

// FormatRestock formats the notification sent when a product is back in stock.
// The size block is only added when the snapshot has sizes.
func FormatRestock(link string, s Snapshot) string {
	var b strings.Builder
	b.WriteString("✅ ")
	writeProductLink(&b, link, s.Name)
	b.WriteString(": Available!")
	writeSizes(&b, s.Sizes)
	return b.String()
}

// FormatInitialStatus formats the summary sent once at startup.
// Every link is listed in the given order, whatever its state.
func FormatInitialStatus(links []string, state StateMap) string {
	var b strings.Builder
	b.WriteString("<b>Initial product status:</b>\n\n")
	for _, link := range links {
		s := state.Get(link)
		writeProductLink(&b, link, s.Name)
		b.WriteString(": ")
		b.WriteString(stateLabel(s.State))
		writeSizes(&b, s.Sizes)
		b.WriteString("\n\n")
	}
	return b.String()
}

func stateLabel(a Availability) string {
	if a == AvailabilityError {
		return "Error checking"
	}
	return string(a)
}

func writeProductLink(b *strings.Builder, link, name string) {
	b.WriteString("<a href='")
	b.WriteString(html.EscapeString(link))
	b.WriteString("'>")
	b.WriteString(html.EscapeString(name))
	b.WriteString("</a>")
}

func writeSizes(b *strings.Builder, sizes []Size) {
	if len(sizes) == 0 {
		return
	}
	b.WriteString("\nAvailable sizes:")
	for _, size := range sizes {
		b.WriteString("\n- <b>")
		b.WriteString(html.EscapeString(size.Label))
		b.WriteString("</b>: ")
		if size.Status == SizeLowStock {
			b.WriteString(LowStockMarker + " Low stock")
		} else {
			b.WriteString("Available")
		}
	}
}
