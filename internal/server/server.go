package server

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"vinylkeep/internal/catalog"
	"vinylkeep/internal/discogs"
	"vinylkeep/internal/records"
)

type server struct {
	store    *records.Store
	lookup   *discogs.Client
	catalog  *catalog.Service
	jwtAuth  *jwtauth.JWTAuth
	username string
	password string
	apiToken string
}

// Options configures the HTTP server.
type Options struct {
	Store  *records.Store
	Lookup *discogs.Client

	// Username and PasswordHash (bcrypt) enable the session login. APIToken
	// enables static token access. With neither set the server is open,
	// which is the expected mode on a trusted home network.
	Username     string
	PasswordHash string
	APIToken     string

	// JWTSecret signs session tokens. When empty a random secret is
	// generated, invalidating sessions across restarts.
	JWTSecret []byte
}

// New builds the HTTP API handler.
func New(opts Options) http.Handler {
	secret := opts.JWTSecret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		_, _ = rand.Read(secret)
	}

	s := &server{
		store:    opts.Store,
		lookup:   opts.Lookup,
		catalog:  catalog.NewService(opts.Store, opts.Lookup),
		jwtAuth:  jwtauth.New("HS256", secret, nil),
		username: opts.Username,
		password: opts.PasswordHash,
		apiToken: opts.APIToken,
	}

	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(s.jwtAuth))

	r.Post("/session", s.postSession)
	r.Delete("/session", s.deleteSession)

	r.Group(func(r chi.Router) {
		r.Use(s.mustAuthenticated)

		r.Route("/records", func(r chi.Router) {
			r.Get("/", s.getRecords)
			r.Post("/", s.postRecord)
			r.Post("/import/{release-id}", s.postImportRelease)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getRecord)
				r.Patch("/", s.patchRecord)
				r.Delete("/", s.deleteRecord)
			})
		})

		r.Get("/search", s.getSearch)
		r.Get("/releases/{release-id}", s.getRelease)
	})

	return r
}

func (s *server) mustAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken == "" && s.username == "" {
			next.ServeHTTP(w, r)
			return
		}

		if s.apiToken != "" && r.Header.Get("Authorization") == "Token "+s.apiToken {
			next.ServeHTTP(w, r)
			return
		}

		if s.isLoggedIn(r) {
			next.ServeHTTP(w, r)
			return
		}

		s.renderError(w, http.StatusUnauthorized, errors.New("authentication required"))
	})
}

func (s *server) renderJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data == nil {
		return
	}

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("serving json", "error", err)
	}
}

func (s *server) renderError(w http.ResponseWriter, code int, reqErr error) {
	data := map[string]any{
		"status": code,
	}

	if reqErr != nil {
		slog.Error("request failed", "status", code, "error", reqErr)
		data["error"] = reqErr.Error()
	}

	s.renderJSON(w, code, data)
}

// renderLookupError maps lookup client failures onto response codes so API
// consumers can branch on them.
func (s *server) renderLookupError(w http.ResponseWriter, err error) {
	var statusErr *discogs.StatusError

	switch {
	case errors.Is(err, discogs.ErrNotConfigured):
		s.renderError(w, http.StatusServiceUnavailable, err)
	case errors.As(err, &statusErr), errors.Is(err, discogs.ErrTransport):
		s.renderError(w, http.StatusBadGateway, err)
	default:
		s.renderError(w, http.StatusInternalServerError, err)
	}
}
