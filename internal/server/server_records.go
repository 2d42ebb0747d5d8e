package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vinylkeep/internal/records"
)

func (s *server) getRecords(w http.ResponseWriter, r *http.Request) {
	s.renderJSON(w, http.StatusOK, s.store.List(r.Context()))
}

func (s *server) postRecord(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.store.Create(r.Context(), fields)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	s.renderJSON(w, http.StatusCreated, rec)
}

func (s *server) getRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.renderRecordError(w, err)
		return
	}

	s.renderJSON(w, http.StatusOK, rec)
}

func (s *server) patchRecord(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		s.renderRecordError(w, err)
		return
	}

	s.renderJSON(w, http.StatusOK, rec)
}

func (s *server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *server) postImportRelease(w http.ResponseWriter, r *http.Request) {
	id, err := extractReleaseID(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.catalog.ImportRelease(r.Context(), id)
	if err != nil {
		s.renderLookupError(w, err)
		return
	}

	s.renderJSON(w, http.StatusCreated, rec)
}

func (s *server) renderRecordError(w http.ResponseWriter, err error) {
	if errors.Is(err, records.ErrNotFound) {
		s.renderError(w, http.StatusNotFound, err)
		return
	}

	s.renderError(w, http.StatusInternalServerError, err)
}

func decodeFields(r *http.Request) (records.Fields, error) {
	var fields records.Fields
	err := json.NewDecoder(r.Body).Decode(&fields)
	return fields, err
}

func extractReleaseID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "release-id")
	return strconv.ParseInt(idStr, 10, 64)
}
