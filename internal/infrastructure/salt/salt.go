package salt

import (
	"github.com/oklog/ulid/v2"
)

// ULIDSource produces ULID salts for transaction id derivation. ULIDs
// carry millisecond time plus random entropy, so identical payloads
// submitted back to back still hash to distinct ids.
type ULIDSource struct{}

// NewULIDSource creates a new ULIDSource.
func NewULIDSource() *ULIDSource {
	return &ULIDSource{}
}

// Salt returns a new ULID.
func (s *ULIDSource) Salt() string {
	return ulid.Make().String()
}
