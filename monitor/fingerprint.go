package monitor

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/stockwatch"
)

// Fingerprint returns a short hash of everything observable in s.
// Two snapshots with equal fingerprints render identical notifications.
func Fingerprint(s stockwatch.Snapshot) string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte(0)
	b.WriteString(string(s.State))
	for _, size := range s.Sizes {
		b.WriteByte(0)
		b.WriteString(size.Label)
		b.WriteByte('=')
		b.WriteString(string(size.Status))
	}
	return fmt.Sprintf("%x", xxhash.Sum64String(b.String()))
}
