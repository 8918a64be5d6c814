package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// maxErrorWidth bounds messages taken from non-JSON error bodies.
const maxErrorWidth = 200

// Error is a non-2xx response. Message is the body's "error" field when present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return e.Message
}

func newError(status int, body []byte) *Error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Error
		if msg == "" {
			msg = payload.Message
		}
	}
	if msg == "" {
		msg = xansi.Truncate(strings.TrimSpace(string(body)), maxErrorWidth, "…")
		if strings.HasPrefix(msg, "<") {
			msg = ""
		}
	}
	return &Error{Status: status, Message: msg}
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusNotFound
}

// ErrorMessage returns the server message for *Error and err.Error() otherwise.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
