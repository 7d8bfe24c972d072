package stockwatch

import "regexp"

// LinkFilter specifies patterns for accepting tracked links.
type LinkFilter struct {
	// Include patterns - if set, only links matching at least one pattern are accepted.
	Include []*regexp.Regexp

	// Exclude patterns - links matching any pattern are rejected.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the link passes the filter.
// If the filter is nil, all links pass.
func (f *LinkFilter) Match(link string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(link) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(link) {
			return false
		}
	}

	return true
}

// Split partitions links into those that pass the filter and those that don't,
// preserving order and dropping duplicates.
func (f *LinkFilter) Split(links []string) (accepted, rejected []string) {
	seen := make(map[string]bool, len(links))
	for _, link := range links {
		if seen[link] {
			continue
		}
		seen[link] = true
		if f.Match(link) {
			accepted = append(accepted, link)
		} else {
			rejected = append(rejected, link)
		}
	}
	return accepted, rejected
}
