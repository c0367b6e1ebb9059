package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/bobmcallan/stockfolio/internal/models"
)

const (
	flashCookieName = "stockfolio_flash"

	// Browsers drop cookies over 4096 bytes including name and attributes.
	maxFlashValueBytes = 3600
	maxFlashTextRunes  = 300
)

// setFlash stores messages for the next page render.
// Long texts are shortened and trailing messages dropped so the cookie stays deliverable.
func setFlash(w http.ResponseWriter, msgs []models.Message) {
	if len(msgs) == 0 {
		return
	}
	value, ok := encodeFlash(msgs)
	if !ok {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func encodeFlash(msgs []models.Message) (string, bool) {
	trimmed := make([]models.Message, len(msgs))
	for i, m := range msgs {
		if r := []rune(m.Text); len(r) > maxFlashTextRunes {
			m.Text = string(r[:maxFlashTextRunes-3]) + "..."
		}
		trimmed[i] = m
	}

	for n := len(trimmed); n > 0; n-- {
		data, err := json.Marshal(trimmed[:n])
		if err != nil {
			return "", false
		}
		if value := base64.RawURLEncoding.EncodeToString(data); len(value) <= maxFlashValueBytes {
			return value, true
		}
	}
	return "", false
}

// popFlash returns pending messages and expires the cookie.
// A malformed cookie is discarded.
func popFlash(w http.ResponseWriter, r *http.Request) []models.Message {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var msgs []models.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil
	}
	return msgs
}
