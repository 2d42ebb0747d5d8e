// Package records defines the catalogued vinyl record entity and the Store
// that owns its persistence. The whole collection lives as a JSON array in a
// single backing-store slot; every mutation is a read-modify-write of that
// slot.
package records

// Record is one catalogued vinyl item. The four descriptive fields are always
// present, defaulting to the empty string. ImageURL is always serialized,
// null when no cover art is known. The remaining optional fields are only set
// when the record was created from, or enriched by, a Discogs lookup.
type Record struct {
	ID           string  `json:"id"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	SerialNumber string  `json:"serialNumber"`
	MatrixRunout string  `json:"matrixRunout"`
	ImageURL     *string `json:"imageUrl"`

	Year       *int     `json:"year,omitempty"`
	Country    *string  `json:"country,omitempty"`
	Genre      []string `json:"genre,omitempty"`
	Style      []string `json:"style,omitempty"`
	Label      *string  `json:"label,omitempty"`
	Format     *string  `json:"format,omitempty"`
	DiscogsID  *int64   `json:"discogsId,omitempty"`
	DiscogsURL *string  `json:"discogsUrl,omitempty"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

func (r *Record) String() string {
	str := `"` + r.AlbumName + `"`
	if r.ArtistName != "" {
		str += ` by ` + r.ArtistName
	}
	return str
}

// Fields is a partial set of record fields used as input to Create and
// Update. A nil pointer (or nil slice) means "field not set": Create applies
// defaults, Update leaves the existing value alone.
type Fields struct {
	ArtistName   *string  `json:"artistName,omitempty"`
	AlbumName    *string  `json:"albumName,omitempty"`
	SerialNumber *string  `json:"serialNumber,omitempty"`
	MatrixRunout *string  `json:"matrixRunout,omitempty"`
	ImageURL     *string  `json:"imageUrl,omitempty"`
	Year         *int     `json:"year,omitempty"`
	Country      *string  `json:"country,omitempty"`
	Genre        []string `json:"genre,omitempty"`
	Style        []string `json:"style,omitempty"`
	Label        *string  `json:"label,omitempty"`
	Format       *string  `json:"format,omitempty"`
	DiscogsID    *int64   `json:"discogsId,omitempty"`
	DiscogsURL   *string  `json:"discogsUrl,omitempty"`
}
