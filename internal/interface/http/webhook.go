package http

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mailforstudy46-bot/central-discord-bot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// APOLLO WEBHOOK
// Внешний планировщик событий шлёт сюда анонсы; бот публикует их в канал.
// ══════════════════════════════════════════════════════════════════════════════

// maxWebhookBody bounds the announcement payload size.
const maxWebhookBody = 64 << 10 // 64 KB

// apolloPayload is the announcement request body.
type apolloPayload struct {
	GuildID   string `json:"guildId"`
	ChannelID string `json:"channelId"`
	Title     string `json:"title"`
	StartTime string `json:"startTime"`
}

// handleApolloWebhook accepts an event announcement and forwards it to the
// target channel. The response is 200 on success and 500 when the channel
// post fails, so the sender can retry.
func (s *Server) handleApolloWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.authorizeWebhook(r) {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid webhook secret")
		return
	}

	if s.deps.Announcer == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "not_available", "Announcements are not available")
		return
	}

	var payload apolloPayload
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err := decoder.Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_payload", "Request body must be valid JSON")
		return
	}

	if payload.ChannelID == "" || payload.Title == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_payload", "channelId and title are required")
		return
	}

	err := s.deps.Announcer.Announce(r.Context(), payload.ChannelID, payload.Title, payload.StartTime)
	if err != nil {
		s.logger.Error("event announcement failed",
			logger.ChannelID(payload.ChannelID),
			logger.String("title", payload.Title),
			logger.Err(err),
		)
		writeJSONError(w, http.StatusInternalServerError, "announce_failed", "Failed to post announcement")
		return
	}

	s.logger.Info("event announced",
		logger.ChannelID(payload.ChannelID),
		logger.String("title", payload.Title),
	)

	writeJSON(w, http.StatusOK, map[string]string{"status": "announced"})
}

// authorizeWebhook checks the shared secret in constant time. An empty
// configured secret disables the check.
func (s *Server) authorizeWebhook(r *http.Request) bool {
	if s.config.WebhookSecret == "" {
		return true
	}

	provided := r.Header.Get("X-Webhook-Secret")
	if provided == "" {
		auth := r.Header.Get("Authorization")
		provided = strings.TrimPrefix(auth, "Bearer ")
	}

	return subtle.ConstantTimeCompare([]byte(provided), []byte(s.config.WebhookSecret)) == 1
}
