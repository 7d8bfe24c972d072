package stockwatch

// UnknownName is the product name used when a page has not been observed yet
// or its name could not be resolved.
const UnknownName = "Unknown"

// Availability is the overall availability of a product page.
type Availability string

// Availability constants. AvailabilityUnknown is the state of a link that
// has never been observed; AvailabilityError means the last fetch failed.
const (
	AvailabilityUnknown       Availability = "UNKNOWN"
	AvailabilityAvailable     Availability = "AVAILABLE"
	AvailabilitySoldOut       Availability = "SOLD_OUT"
	AvailabilityIndeterminate Availability = "INDETERMINATE"
	AvailabilityError         Availability = "ERROR"
)

// Valid reports whether a is one of the defined availability states.
func (a Availability) Valid() bool {
	switch a {
	case AvailabilityUnknown, AvailabilityAvailable, AvailabilitySoldOut,
		AvailabilityIndeterminate, AvailabilityError:
		return true
	}
	return false
}

// HasSizes reports whether snapshots in this state carry a size list.
func (a Availability) HasSizes() bool {
	return a == AvailabilityAvailable || a == AvailabilityIndeterminate
}

// MarshalText implements encoding.TextMarshaler.
func (a Availability) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, Errorf(EINVALID, "invalid availability %q", string(a))
	}
	return []byte(a), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Unrecognized values are rejected rather than becoming new states.
func (a *Availability) UnmarshalText(text []byte) error {
	v := Availability(text)
	if !v.Valid() {
		return Errorf(EINVALID, "invalid availability %q", string(text))
	}
	*a = v
	return nil
}

// SizeStatus is the stock level of a single size option.
type SizeStatus string

// SizeStatus constants.
const (
	SizeUnknown    SizeStatus = "UNKNOWN"
	SizeAvailable  SizeStatus = "AVAILABLE"
	SizeLowStock   SizeStatus = "LOW_STOCK"
	SizeOutOfStock SizeStatus = "OUT_OF_STOCK"
)

// Valid reports whether s is one of the defined size statuses.
func (s SizeStatus) Valid() bool {
	switch s {
	case SizeUnknown, SizeAvailable, SizeLowStock, SizeOutOfStock:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (s SizeStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, Errorf(EINVALID, "invalid size status %q", string(s))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SizeStatus) UnmarshalText(text []byte) error {
	v := SizeStatus(text)
	if !v.Valid() {
		return Errorf(EINVALID, "invalid size status %q", string(text))
	}
	*s = v
	return nil
}

// Size is one size option of a product together with its stock level.
type Size struct {
	Label  string     `json:"label"`
	Status SizeStatus `json:"status"`
}

// Snapshot is a single observation of a product page.
type Snapshot struct {
	Name  string       `json:"name"`
	State Availability `json:"state"`

	// Sizes lists the sizes that are not out of stock, in page order.
	// Nil unless State is Available or Indeterminate and at least one
	// such size was found.
	Sizes []Size `json:"sizes"`
}

// UnknownSnapshot returns the snapshot of a link that was never observed.
func UnknownSnapshot() Snapshot {
	return Snapshot{Name: UnknownName, State: AvailabilityUnknown}
}

// Validate returns an EINVALID error when the state or a size status of s
// is not one of the defined values. A missing state is invalid.
func (s Snapshot) Validate() error {
	if !s.State.Valid() {
		return Errorf(EINVALID, "invalid availability %q", string(s.State))
	}
	for _, size := range s.Sizes {
		if !size.Status.Valid() {
			return Errorf(EINVALID, "invalid status %q for size %q", string(size.Status), size.Label)
		}
	}
	return nil
}

// ErrorSnapshot returns the snapshot recorded when a fetch or parse fails.
// An empty name is replaced with UnknownName.
func ErrorSnapshot(name string) Snapshot {
	if name == "" {
		name = UnknownName
	}
	return Snapshot{Name: name, State: AvailabilityError}
}

// Normalize returns a copy of s that satisfies the storage invariants:
// out-of-stock sizes are dropped, an empty size list becomes nil, sizes are
// only kept for states that carry them, and an empty name becomes UnknownName.
func (s Snapshot) Normalize() Snapshot {
	if s.Name == "" {
		s.Name = UnknownName
	}
	if s.State == "" {
		s.State = AvailabilityUnknown
	}
	if !s.State.HasSizes() {
		s.Sizes = nil
		return s
	}
	s.Sizes = InStock(s.Sizes)
	return s
}

// InStock returns the sizes that are not out of stock, preserving order.
// Returns nil when no such size exists.
func InStock(sizes []Size) []Size {
	var out []Size
	for _, size := range sizes {
		if size.Status == SizeOutOfStock {
			continue
		}
		out = append(out, size)
	}
	return out
}

// StateMap maps each tracked link to its last known snapshot.
type StateMap map[string]Snapshot

// NewStateMap returns a state map with every link mapped to the unknown snapshot.
func NewStateMap(links []string) StateMap {
	return StateMap{}.WithDefaults(links)
}

// WithDefaults adds the unknown snapshot for every link missing from m and
// returns m. Entries for links not in the list are kept. A nil map is
// replaced with a new one.
func (m StateMap) WithDefaults(links []string) StateMap {
	if m == nil {
		m = make(StateMap, len(links))
	}
	for _, link := range links {
		if _, ok := m[link]; !ok {
			m[link] = UnknownSnapshot()
		}
	}
	return m
}

// Get returns the snapshot stored for link, or the unknown snapshot.
func (m StateMap) Get(link string) Snapshot {
	if s, ok := m[link]; ok {
		return s
	}
	return UnknownSnapshot()
}
