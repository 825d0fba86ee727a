// Package flash carries one-time messages across a redirect in a short-lived cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const (
	cookieName  = "catalog_flash"
	maxAge      = 60
	maxMessages = 5 // oldest are dropped first
)

const (
	Success = "success"
	Danger  = "danger"
	Info    = "info"
	Warning = "warning"
)

type Message struct {
	Category string `json:"c"`
	Text     string `json:"t"`
}

// Add queues a message for the next rendered page, keeping any that are still pending.
func Add(w http.ResponseWriter, r *http.Request, category, text string) {
	msgs := append(read(r), Message{Category: category, Text: text})
	if len(msgs) > maxMessages {
		msgs = msgs[len(msgs)-maxMessages:]
	}
	payload, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending messages and expires the cookie.
func Pop(w http.ResponseWriter, r *http.Request) []Message {
	msgs := read(r)
	if msgs == nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return msgs
}

func read(r *http.Request) []Message {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}
