package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"vinylkeep/internal/storage"
)

// slotKey is the single backing-store slot holding the whole collection.
const slotKey = "vinyl_records"

// ErrNotFound is returned when no record matches the requested id.
var ErrNotFound = errors.New("records: not found")

// Store owns CRUD over the record collection. It serializes its own
// mutations, so in-process callers cannot race the read-modify-write cycle;
// separate processes pointed at the same slot still can.
type Store struct {
	kv  storage.KV
	mu  sync.Mutex
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for createdAt/updatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a Store persisting through the given backing store.
func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every record in backing-store order. An empty, missing or
// unreadable slot yields an empty collection: a broken slot must not brick
// the whole collection view.
func (s *Store) List(ctx context.Context) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.unsafeLoad(ctx)
}

// Get returns the record with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	for _, rec := range s.List(ctx) {
		if rec.ID == id {
			return &rec, nil
		}
	}

	return nil, ErrNotFound
}

// Create builds a record from the given fields, assigns it a fresh id and
// timestamps, and appends it to the collection. The four descriptive fields
// default to the empty string; optional fields are copied through verbatim.
func (s *Store) Create(ctx context.Context, fields Fields) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UnixMilli()
	rec := Record{
		ID:           uuid.NewString(),
		ArtistName:   orEmpty(fields.ArtistName),
		AlbumName:    orEmpty(fields.AlbumName),
		SerialNumber: orEmpty(fields.SerialNumber),
		MatrixRunout: orEmpty(fields.MatrixRunout),
		ImageURL:     fields.ImageURL,
		Year:         fields.Year,
		Country:      fields.Country,
		Genre:        fields.Genre,
		Style:        fields.Style,
		Label:        fields.Label,
		Format:       fields.Format,
		DiscogsID:    fields.DiscogsID,
		DiscogsURL:   fields.DiscogsURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	recs := append(s.unsafeLoad(ctx), rec)
	err := s.unsafeWrite(ctx, recs)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// Update shallow-merges the set fields onto the record with the given id and
// refreshes its updatedAt stamp. Returns ErrNotFound when the id is unknown.
func (s *Store) Update(ctx context.Context, id string, fields Fields) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.unsafeLoad(ctx)
	for i := range recs {
		if recs[i].ID != id {
			continue
		}

		merge(&recs[i], fields)

		// updatedAt must keep growing even when the clock does not.
		now := s.now().UnixMilli()
		if now <= recs[i].UpdatedAt {
			now = recs[i].UpdatedAt + 1
		}
		recs[i].UpdatedAt = now

		err := s.unsafeWrite(ctx, recs)
		if err != nil {
			return nil, err
		}

		rec := recs[i]
		return &rec, nil
	}

	return nil, ErrNotFound
}

// Delete removes the record with the given id. Deleting an unknown id is a
// no-op, not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.unsafeLoad(ctx)
	kept := recs[:0:0]
	for _, rec := range recs {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}

	if len(kept) == len(recs) {
		return nil
	}

	return s.unsafeWrite(ctx, kept)
}

// unsafeLoad reads the collection without taking the lock.
func (s *Store) unsafeLoad(ctx context.Context) []Record {
	raw, err := s.kv.Get(ctx, slotKey)
	if errors.Is(err, storage.ErrNoValue) {
		return []Record{}
	} else if err != nil {
		slog.Error("could not read collection, treating as empty", "error", err)
		return []Record{}
	}

	var recs []Record
	err = json.Unmarshal(raw, &recs)
	if err != nil {
		slog.Error("could not decode collection, treating as empty", "error", err)
		return []Record{}
	}

	return recs
}

// unsafeWrite replaces the whole persisted sequence without taking the lock.
func (s *Store) unsafeWrite(ctx context.Context, recs []Record) error {
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}

	err = s.kv.Set(ctx, slotKey, raw)
	if err != nil {
		return fmt.Errorf("write collection: %w", err)
	}

	return nil
}

func merge(rec *Record, fields Fields) {
	if fields.ArtistName != nil {
		rec.ArtistName = *fields.ArtistName
	}
	if fields.AlbumName != nil {
		rec.AlbumName = *fields.AlbumName
	}
	if fields.SerialNumber != nil {
		rec.SerialNumber = *fields.SerialNumber
	}
	if fields.MatrixRunout != nil {
		rec.MatrixRunout = *fields.MatrixRunout
	}
	if fields.ImageURL != nil {
		rec.ImageURL = fields.ImageURL
	}
	if fields.Year != nil {
		rec.Year = fields.Year
	}
	if fields.Country != nil {
		rec.Country = fields.Country
	}
	if fields.Genre != nil {
		rec.Genre = fields.Genre
	}
	if fields.Style != nil {
		rec.Style = fields.Style
	}
	if fields.Label != nil {
		rec.Label = fields.Label
	}
	if fields.Format != nil {
		rec.Format = fields.Format
	}
	if fields.DiscogsID != nil {
		rec.DiscogsID = fields.DiscogsID
	}
	if fields.DiscogsURL != nil {
		rec.DiscogsURL = fields.DiscogsURL
	}
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
