// Package catalog glues the Discogs lookup client and the collection store
// together: it maps release metadata onto record fields and drives the store
// mutations that follow an accepted lookup.
package catalog

import (
	"context"

	"vinylkeep/internal/discogs"
	"vinylkeep/internal/records"
)

// matrixIdentifier is the Discogs identifier type carrying the runout
// etching.
const matrixIdentifier = "Matrix / Runout"

// FieldsFromRelease maps a Discogs release onto record fields: first credited
// artist, release title, first label's catalog number and name, the first
// "Matrix / Runout" identifier, and the enrichment passthrough. Cover art
// prefers the first image's full-size URI, falling back to its thumbnail.
func FieldsFromRelease(rel *discogs.Release) records.Fields {
	fields := records.Fields{
		AlbumName: ptr(rel.Title),
		Genre:     rel.Genres,
		Style:     rel.Styles,
		DiscogsID: ptr(rel.ID),
	}

	if len(rel.Artists) > 0 {
		fields.ArtistName = ptr(rel.Artists[0].Name)
	}
	if len(rel.Labels) > 0 {
		fields.SerialNumber = ptr(rel.Labels[0].Catno)
		if rel.Labels[0].Name != "" {
			fields.Label = ptr(rel.Labels[0].Name)
		}
	}
	for _, ident := range rel.Identifiers {
		if ident.Type == matrixIdentifier {
			fields.MatrixRunout = ptr(ident.Value)
			break
		}
	}

	if rel.Year != 0 {
		fields.Year = ptr(rel.Year)
	}
	if rel.Country != "" {
		fields.Country = ptr(rel.Country)
	}
	if len(rel.Formats) > 0 {
		fields.Format = ptr(rel.Formats[0].Name)
	}
	if rel.URI != "" {
		fields.DiscogsURL = ptr(rel.URI)
	}

	if len(rel.Images) > 0 {
		if uri := rel.Images[0].URI; uri != "" {
			fields.ImageURL = ptr(uri)
		} else if thumb := rel.Images[0].URI150; thumb != "" {
			fields.ImageURL = ptr(thumb)
		}
	}

	return fields
}

// Service drives lookups into store mutations.
type Service struct {
	store  *records.Store
	lookup *discogs.Client
}

// NewService creates a Service over the given store and lookup client.
func NewService(store *records.Store, lookup *discogs.Client) *Service {
	return &Service{
		store:  store,
		lookup: lookup,
	}
}

// ImportRelease fetches the full release metadata and persists it as a new
// record. Lookup failures propagate unchanged and leave the store untouched.
func (s *Service) ImportRelease(ctx context.Context, id int64) (*records.Record, error) {
	rel, err := s.lookup.GetRelease(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.store.Create(ctx, FieldsFromRelease(rel))
}

// Records re-reads the collection as currently persisted.
func (s *Service) Records(ctx context.Context) []records.Record {
	return s.store.List(ctx)
}

func ptr[T any](v T) *T {
	return &v
}
