package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// sessionState is the on-disk form of the cookie jar for one backend.
type sessionState struct {
	SavedAt time.Time       `json:"saved_at"`
	BaseURL string          `json:"base_url"`
	Cookies []sessionCookie `json:"cookies"`
}

type sessionCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LoadSession restores cookies saved by SaveSession. A missing file, or one
// saved for a different backend, leaves the jar empty.
func (c *Client) LoadSession(path string) error {
	raw, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var state sessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return fmt.Errorf("failed to decode session file %s: %w", path, err)
	}
	if state.BaseURL != c.baseURL.String() {
		c.logger.Debug("ignoring session for another backend", "saved", state.BaseURL, "current", c.baseURL.String())
		return nil
	}

	cookies := make([]*http.Cookie, 0, len(state.Cookies))
	for _, sc := range state.Cookies {
		cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value, Path: "/"})
	}
	c.jar.SetCookies(c.baseURL, cookies)
	return nil
}

// SaveSession writes the jar's cookies for the backend to path.
func (c *Client) SaveSession(path string) error {
	state := sessionState{
		SavedAt: time.Now(),
		BaseURL: c.baseURL.String(),
	}
	for _, ck := range c.jar.Cookies(c.baseURL) {
		state.Cookies = append(state.Cookies, sessionCookie{Name: ck.Name, Value: ck.Value})
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// ClearSession removes the session file. A missing file is not an error.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// HasSession reports whether the jar holds any cookie for the backend.
func (c *Client) HasSession() bool {
	return len(c.jar.Cookies(c.baseURL)) > 0
}
