package devserver

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, userID int) error {
	token, err := s.db.createSession(r.Context(), userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionUser(r)
	if !ok {
		writeJSON(w, http.StatusOK, model.Identity{})
		return
	}
	u, err := s.db.userByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusOK, model.Identity{})
		return
	}
	writeJSON(w, http.StatusOK, model.Identity{Authenticated: true, UserID: &u.ID, Username: u.Username})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body model.Registration
	if err := decodeBody(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	username := strings.TrimSpace(body.Username)
	email := strings.ToLower(strings.TrimSpace(body.Email))
	password := strings.TrimSpace(body.Password)
	hint := strings.TrimSpace(body.PasswordHint)

	if username == "" || email == "" || password == "" {
		fail(w, http.StatusBadRequest, "Preencha todos os campos.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	id, err := s.db.createUser(r.Context(), user{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Hint:         sql.NullString{String: hint, Valid: hint != ""},
	})
	if errors.Is(err, common.ErrDuplicateEntry) {
		fail(w, http.StatusConflict, "Usuário ou e-mail já cadastrado.")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	if err := s.startSession(w, r, id); err != nil {
		s.internalError(w, r, err)
		return
	}
	ok(w, "Cadastro realizado com sucesso.")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body model.Credentials
	if err := decodeBody(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	password := strings.TrimSpace(body.Password)
	if email == "" || password == "" {
		fail(w, http.StatusBadRequest, "Informe e-mail e senha.")
		return
	}

	u, err := s.db.userByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		s.internalError(w, r, err)
		return
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		fail(w, http.StatusUnauthorized, "Credenciais inválidas.")
		return
	}

	if err := s.startSession(w, r, u.ID); err != nil {
		s.internalError(w, r, err)
		return
	}
	ok(w, "Login realizado com sucesso.")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := s.db.deleteSession(r.Context(), cookie.Value); err != nil {
			s.internalError(w, r, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, result{Success: true})
}

func (s *Server) handlePasswordHint(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" {
		fail(w, http.StatusBadRequest, "Informe o e-mail.")
		return
	}

	u, err := s.db.userByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		s.internalError(w, r, err)
		return
	}
	if u == nil || !u.Hint.Valid || u.Hint.String == "" {
		fail(w, http.StatusNotFound, "Nenhuma dica cadastrada.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "hint": u.Hint.String})
}
