package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinylkeep/internal/catalog"
	"vinylkeep/internal/discogs"
	"vinylkeep/internal/records"
	"vinylkeep/internal/storage"
)

func TestFieldsFromRelease(t *testing.T) {
	fields := catalog.FieldsFromRelease(&discogs.Release{
		ID:      4039,
		Title:   "Miles Davis - Kind of Blue",
		Year:    1959,
		Country: "US",
		Genres:  []string{"Jazz"},
		Styles:  []string{"Modal"},
		Artists: []discogs.Artist{{ID: 1, Name: "Miles Davis"}, {ID: 2, Name: "Bill Evans"}},
		Labels:  []discogs.Label{{Name: "Columbia", Catno: "CL 1355"}},
		Formats: []discogs.Format{{Name: "Vinyl"}},
		Identifiers: []discogs.Identifier{
			{Type: "Barcode", Value: "5099746060312"},
			{Type: "Matrix / Runout", Value: "XLP 47324-1D"},
			{Type: "Matrix / Runout", Value: "XLP 47325-1D"},
		},
		Images: []discogs.Image{{URI: "https://img.example/full.jpg", URI150: "https://img.example/thumb.jpg"}},
		URI:    "https://www.discogs.com/release/4039",
	})

	require.NotNil(t, fields.ArtistName)
	assert.Equal(t, "Miles Davis", *fields.ArtistName)
	require.NotNil(t, fields.AlbumName)
	assert.Equal(t, "Miles Davis - Kind of Blue", *fields.AlbumName)
	require.NotNil(t, fields.SerialNumber)
	assert.Equal(t, "CL 1355", *fields.SerialNumber)
	require.NotNil(t, fields.MatrixRunout)
	assert.Equal(t, "XLP 47324-1D", *fields.MatrixRunout, "first matrix identifier wins")
	require.NotNil(t, fields.Year)
	assert.Equal(t, 1959, *fields.Year)
	require.NotNil(t, fields.Country)
	assert.Equal(t, "US", *fields.Country)
	assert.Equal(t, []string{"Jazz"}, fields.Genre)
	assert.Equal(t, []string{"Modal"}, fields.Style)
	require.NotNil(t, fields.Label)
	assert.Equal(t, "Columbia", *fields.Label)
	require.NotNil(t, fields.Format)
	assert.Equal(t, "Vinyl", *fields.Format)
	require.NotNil(t, fields.DiscogsID)
	assert.Equal(t, int64(4039), *fields.DiscogsID)
	require.NotNil(t, fields.DiscogsURL)
	assert.Equal(t, "https://www.discogs.com/release/4039", *fields.DiscogsURL)
	require.NotNil(t, fields.ImageURL)
	assert.Equal(t, "https://img.example/full.jpg", *fields.ImageURL)
}

func TestFieldsFromReleaseImageFallback(t *testing.T) {
	fields := catalog.FieldsFromRelease(&discogs.Release{
		Title:  "Untitled",
		Images: []discogs.Image{{URI150: "https://img.example/thumb.jpg"}},
	})

	require.NotNil(t, fields.ImageURL)
	assert.Equal(t, "https://img.example/thumb.jpg", *fields.ImageURL)
}

func TestFieldsFromReleaseSparsePayload(t *testing.T) {
	fields := catalog.FieldsFromRelease(&discogs.Release{
		ID:    7,
		Title: "White Label Promo",
	})

	require.NotNil(t, fields.AlbumName)
	assert.Equal(t, "White Label Promo", *fields.AlbumName)
	assert.Nil(t, fields.ArtistName)
	assert.Nil(t, fields.SerialNumber)
	assert.Nil(t, fields.MatrixRunout)
	assert.Nil(t, fields.Year)
	assert.Nil(t, fields.Country)
	assert.Nil(t, fields.Label)
	assert.Nil(t, fields.Format)
	assert.Nil(t, fields.ImageURL)
	require.NotNil(t, fields.DiscogsID)
	assert.Equal(t, int64(7), *fields.DiscogsID)
}

// TestSearchSelectImportFlow walks the whole user flow against a stub API:
// search, pick the match, fetch its detail, persist it, re-read the
// collection.
func TestSearchSelectImportFlow(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/database/search":
			assert.Equal(t, "Kind of Blue", r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`{"pagination":{"page":1,"pages":1,"per_page":20,"items":1},"results":[{"id":4039,"type":"release","title":"Miles Davis - Kind of Blue","year":1959}]}`))
		case "/releases/4039":
			_, _ = w.Write([]byte(`{
				"id": 4039,
				"title": "Miles Davis - Kind of Blue",
				"year": 1959,
				"artists": [{"name": "Miles Davis"}],
				"labels": [{"name": "Columbia", "catno": "CL 1355"}]
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "Release not found."}`))
		}
	}))
	t.Cleanup(api.Close)

	client := discogs.New("key", discogs.WithBaseURL(api.URL))
	store := records.NewStore(storage.NewMemory())
	service := catalog.NewService(store, client)
	ctx := context.Background()

	resp, err := client.Search(ctx, "Kind of Blue", discogs.SearchOptions{Type: discogs.TypeRelease})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Miles Davis - Kind of Blue", resp.Results[0].Title)
	assert.Equal(t, 1959, resp.Results[0].Year)

	rec, err := service.ImportRelease(ctx, resp.Results[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Miles Davis", rec.ArtistName)
	assert.Equal(t, "Miles Davis - Kind of Blue", rec.AlbumName)
	assert.Equal(t, "CL 1355", rec.SerialNumber)
	require.NotNil(t, rec.Label)
	assert.Equal(t, "Columbia", *rec.Label)

	recs := service.Records(ctx)
	require.Len(t, recs, 1)
	assert.Equal(t, *rec, recs[0])
}

func TestImportReleaseNotFoundLeavesStoreUntouched(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Release not found."}`))
	}))
	t.Cleanup(api.Close)

	client := discogs.New("key", discogs.WithBaseURL(api.URL))
	store := records.NewStore(storage.NewMemory())
	service := catalog.NewService(store, client)
	ctx := context.Background()

	_, err := service.ImportRelease(ctx, 999)
	var statusErr *discogs.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Status)

	assert.Empty(t, service.Records(ctx))
}
