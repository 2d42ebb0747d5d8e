package server

import (
	"fmt"
	"net/http"
	"strconv"

	"vinylkeep/internal/discogs"
)

// getSearch proxies the Discogs database search. The barcode, catno and
// artist/album parameter combinations route through the matching convenience
// entry points of the lookup client.
func (s *server) getSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseIntOr(query.Get("page"), 1)

	var (
		resp *discogs.SearchResponse
		err  error
	)

	switch {
	case query.Get("barcode") != "":
		resp, err = s.lookup.SearchByBarcode(r.Context(), query.Get("barcode"))
	case query.Get("catno") != "":
		resp, err = s.lookup.SearchByCatalogNumber(r.Context(), query.Get("catno"), page)
	case query.Get("artist") != "" && query.Get("album") != "":
		resp, err = s.lookup.SearchByArtistAndAlbum(r.Context(), query.Get("artist"), query.Get("album"), page)
	default:
		searchType := discogs.Type(query.Get("type"))
		if searchType != "" && !searchType.Valid() {
			s.renderError(w, http.StatusBadRequest, fmt.Errorf("invalid search type %q", searchType))
			return
		}

		resp, err = s.lookup.Search(r.Context(), query.Get("q"), discogs.SearchOptions{
			Type:    searchType,
			Page:    page,
			PerPage: parseIntOr(query.Get("per_page"), 0),
		})
	}

	if err != nil {
		s.renderLookupError(w, err)
		return
	}

	s.renderJSON(w, http.StatusOK, resp)
}

func (s *server) getRelease(w http.ResponseWriter, r *http.Request) {
	id, err := extractReleaseID(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	rel, err := s.lookup.GetRelease(r.Context(), id)
	if err != nil {
		s.renderLookupError(w, err)
		return
	}

	s.renderJSON(w, http.StatusOK, rel)
}

func parseIntOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
