package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"golang.org/x/crypto/bcrypt"
)

const sessionSubject string = "Vinyl Keep Session"

func (s *server) postSession(w http.ResponseWriter, r *http.Request) {
	if s.username == "" {
		s.renderError(w, http.StatusNotFound, errors.New("session login not configured"))
		return
	}

	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&credentials)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	correctPassword := bcrypt.CompareHashAndPassword([]byte(s.password), []byte(credentials.Password)) == nil
	if credentials.Username != s.username || !correctPassword {
		s.renderError(w, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	expiration := time.Now().Add(time.Hour * 24 * 7)

	_, signed, err := s.jwtAuth.Encode(map[string]interface{}{
		jwt.SubjectKey:    sessionSubject,
		jwt.IssuedAtKey:   time.Now().Unix(),
		jwt.ExpirationKey: expiration,
	})
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    string(signed),
		Expires:  expiration,
		Secure:   r.URL.Scheme == "https",
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	s.renderJSON(w, http.StatusCreated, map[string]any{
		"expiresAt": expiration.UnixMilli(),
	})
}

func (s *server) deleteSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    "",
		MaxAge:   -1,
		Secure:   r.URL.Scheme == "https",
		Path:     "/",
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusNoContent)
}

func (s *server) isLoggedIn(r *http.Request) bool {
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return false
	}

	if subject, _ := token.Subject(); subject != sessionSubject {
		return false
	}

	return true
}
