package daemon

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"corkboard/internal/logging"
	"corkboard/internal/types"
)

// ChatWebhookRequest is the chat platform's callback payload. Everything
// except the utterance is optional.
type ChatWebhookRequest struct {
	UserRequest *struct {
		Utterance string `json:"utterance"`
		User      *struct {
			ID string `json:"id"`
		} `json:"user"`
	} `json:"userRequest"`
}

type webhookLimiter struct {
	limiter *rate.Limiter
}

func newWebhookLimiter(perMinute int) *webhookLimiter {
	if perMinute <= 0 {
		return &webhookLimiter{}
	}
	return &webhookLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
	}
}

func (l *webhookLimiter) Allow() bool {
	if l == nil || l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}

// ChatWebhook drops a note onto the board from a chat message. The
// platform treats any non-2xx as a bot failure and retries, so everything
// short of a store error answers with the fixed success template: missing
// or empty utterances simply skip persistence.
func (a *API) ChatWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if a.Logger != nil {
			a.Logger.Warn("webhook_bad_payload", logging.F("error", err))
		}
		writeJSON(w, http.StatusOK, chatAckPayload())
		return
	}

	text := ""
	userID := "unknown"
	if req.UserRequest != nil {
		text = strings.TrimSpace(req.UserRequest.Utterance)
		if req.UserRequest.User != nil && req.UserRequest.User.ID != "" {
			userID = req.UserRequest.User.ID
		}
	}

	if text == "" {
		writeJSON(w, http.StatusOK, chatAckPayload())
		return
	}
	if !a.Limiter.Allow() {
		if a.Logger != nil {
			a.Logger.Warn("webhook_rate_limited", logging.F("user_id", userID))
		}
		writeJSON(w, http.StatusOK, chatAckPayload())
		return
	}

	now := time.Now().UTC().UnixMilli()
	note := &types.Note{
		Text:      text,
		X:         float64(rand.IntN(500) + 100),
		Y:         float64(rand.IntN(500) + 100),
		UserID:    userID,
		CreatedAt: now,
	}
	if _, err := a.newNoteService().Create(r.Context(), note); err != nil {
		if a.Logger != nil {
			a.Logger.Error("webhook_store_error", logging.F("error", err))
		}
		writeJSON(w, http.StatusInternalServerError, chatErrorPayload())
		return
	}
	if _, err := a.newMessageService().Append(r.Context(), &types.Message{
		Text:      text,
		UserID:    userID,
		CreatedAt: now,
	}); err != nil && a.Logger != nil {
		// The note made it to the board; a missing feed entry is not
		// worth a bot-visible failure.
		a.Logger.Warn("webhook_feed_error", logging.F("error", err))
	}

	if a.Logger != nil {
		a.Logger.Info("webhook_note_created",
			logging.F("user_id", userID),
			logging.F("x", note.X),
			logging.F("y", note.Y),
		)
	}
	writeJSON(w, http.StatusOK, chatAckPayload())
}

// chatAckPayload is the bot platform's version-2.0 skill response.
func chatAckPayload() map[string]any {
	return chatSimpleText("Message sent to the screen!")
}

func chatErrorPayload() map[string]any {
	return chatSimpleText("Error sending message.")
}

func chatSimpleText(text string) map[string]any {
	return map[string]any{
		"version": "2.0",
		"template": map[string]any{
			"outputs": []any{
				map[string]any{
					"simpleText": map[string]any{"text": text},
				},
			},
		},
	}
}
