// Package goquery implements stockwatch.Extractor for store product pages
// using CSS selectors.
package goquery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/stockwatch"
)

var _ stockwatch.Extractor = (*Extractor)(nil)

// CSS selectors for the product detail page markup.
const (
	nameSelector       = `h1.product-detail-info__header-name[data-qa-qualifier="product-detail-info-name"]`
	soldOutSelector    = `span.product-detail-show-similar-products__action-tip`
	addButtonSelector  = `div.zds-button__lines-wrapper`
	sizeListSelector   = `ul.size-selector-sizes.size-selector-sizes--grid-gap[role="listbox"]`
	sizeItemSelector   = `li.size-selector-sizes__size`
	sizeButtonSelector = `button.size-selector-sizes-size__button`
	sizeLabelSelector  = `div.size-selector-sizes-size__label`
)

// Values of the data-qa-action attribute on size buttons.
const (
	actionInStock    = "size-in-stock"
	actionLowOnStock = "size-low-on-stock"
	actionOutOfStock = "size-out-of-stock"
)

// DefaultSoldOutMarkers are the texts that mark a product as sold out.
var DefaultSoldOutMarkers = []string{"AGOTADO", "SOLD OUT"}

// DefaultAddToCartMarkers are the texts of the add-to-cart button. Markers
// match whole words only.
var DefaultAddToCartMarkers = []string{"AÑADIR", "ADD"}

// Extractor reads product name, availability and sizes from a product page.
type Extractor struct {
	soldOutMarkers   []string
	addToCartMarkers []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSoldOutMarkers replaces the sold-out texts. Matching is case-insensitive.
func WithSoldOutMarkers(markers ...string) Option {
	return func(e *Extractor) {
		e.soldOutMarkers = markers
	}
}

// WithAddToCartMarkers replaces the add-to-cart button texts.
// Matching is case-insensitive.
func WithAddToCartMarkers(markers ...string) Option {
	return func(e *Extractor) {
		e.addToCartMarkers = markers
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		soldOutMarkers:   DefaultSoldOutMarkers,
		addToCartMarkers: DefaultAddToCartMarkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses the product page.
//
// A sold-out marker wins over everything else and yields no sizes. An
// add-to-cart button yields AvailabilityAvailable. Without either marker the
// page is AvailabilityIndeterminate. Sizes are read for the last two cases.
func (e *Extractor) Extract(html string) (*stockwatch.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, stockwatch.Errorf(stockwatch.EINVALID, "failed to parse HTML: %v", err)
	}

	s := &stockwatch.Snapshot{Name: stockwatch.UnknownName}
	if name := strings.TrimSpace(doc.Find(nameSelector).First().Text()); name != "" {
		s.Name = name
	}

	switch {
	case containsAny(doc.Find(soldOutSelector).First().Text(), e.soldOutMarkers):
		s.State = stockwatch.AvailabilitySoldOut
		return s, nil
	case containsAny(doc.Find(addButtonSelector).First().Text(), e.addToCartMarkers):
		s.State = stockwatch.AvailabilityAvailable
	default:
		s.State = stockwatch.AvailabilityIndeterminate
	}

	s.Sizes = stockwatch.InStock(extractSizes(doc))
	return s, nil
}

// extractSizes reads every size option in page order, including sold-out ones.
func extractSizes(doc *goquery.Document) []stockwatch.Size {
	var sizes []stockwatch.Size
	list := doc.Find(sizeListSelector).First()
	list.Find(sizeItemSelector).Each(func(_ int, item *goquery.Selection) {
		button := item.Find(sizeButtonSelector).First()
		if button.Length() == 0 {
			return
		}

		label := stockwatch.UnknownName
		if l := button.Find(sizeLabelSelector).First(); l.Length() > 0 {
			label = strings.TrimSpace(l.Text())
		}

		action, _ := button.Attr("data-qa-action")
		sizes = append(sizes, stockwatch.Size{
			Label:  label,
			Status: sizeStatus(action),
		})
	})
	return sizes
}

func sizeStatus(action string) stockwatch.SizeStatus {
	switch {
	case strings.Contains(action, actionInStock):
		return stockwatch.SizeAvailable
	case strings.Contains(action, actionLowOnStock):
		return stockwatch.SizeLowStock
	case strings.Contains(action, actionOutOfStock):
		return stockwatch.SizeOutOfStock
	default:
		return stockwatch.SizeUnknown
	}
}

// containsAny reports whether text contains one of the markers as a whole
// word sequence, ignoring case. "ADD" matches "Add to bag" but not "Added".
func containsAny(text string, markers []string) bool {
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "" {
		return false
	}
	for _, m := range markers {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m != "" && containsWord(text, m) {
			return true
		}
	}
	return false
}

func containsWord(text, word string) bool {
	for start := 0; start <= len(text)-len(word); {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		before, _ := utf8.DecodeLastRuneInString(text[:i])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		start = i + size
	}
	return false
}

// isWordRune is false for utf8.RuneError, which the decoders return at the
// ends of the string.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
