package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func webhookBody(utterance, userID string) string {
	payload := map[string]any{
		"userRequest": map[string]any{
			"utterance": utterance,
			"user":      map[string]any{"id": userID},
		},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func decodeAck(t *testing.T, body string) string {
	t.Helper()
	var resp struct {
		Version  string `json:"version"`
		Template struct {
			Outputs []struct {
				SimpleText struct {
					Text string `json:"text"`
				} `json:"simpleText"`
			} `json:"outputs"`
		} `json:"template"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if resp.Version != "2.0" {
		t.Fatalf("expected version 2.0, got %q", resp.Version)
	}
	if len(resp.Template.Outputs) != 1 {
		t.Fatalf("expected one output, got %d", len(resp.Template.Outputs))
	}
	return resp.Template.Outputs[0].SimpleText.Text
}

func TestWebhookCreatesNoteAndMessage(t *testing.T) {
	api := newTestAPI(t)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/hooks/chat", strings.NewReader(webhookBody("from chat", "user-7")))
	api.ChatWebhook(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("webhook returned %d", recorder.Code)
	}
	if text := decodeAck(t, recorder.Body.String()); text != "Message sent to the screen!" {
		t.Fatalf("unexpected ack text %q", text)
	}

	notes, err := api.newNoteService().List(context.Background())
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected one note, got %d", len(notes))
	}
	note := notes[0]
	if note.Text != "from chat" || note.UserID != "user-7" {
		t.Fatalf("unexpected note %+v", note)
	}
	if note.X < 100 || note.X >= 600 || note.Y < 100 || note.Y >= 600 {
		t.Fatalf("position out of the drop zone: (%v, %v)", note.X, note.Y)
	}
	if note.CreatedAt == 0 {
		t.Fatalf("expected a server timestamp")
	}

	messages, err := api.newMessageService().Recent(context.Background())
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 1 || messages[0].Text != "from chat" || messages[0].UserID != "user-7" {
		t.Fatalf("unexpected feed %+v", messages)
	}
}

func TestWebhookRejectsNonPost(t *testing.T) {
	api := newTestAPI(t)
	recorder := httptest.NewRecorder()
	api.ChatWebhook(recorder, httptest.NewRequest("GET", "/hooks/chat", nil))
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", recorder.Code)
	}
}

func TestWebhookEmptyUtteranceAcksWithoutPersisting(t *testing.T) {
	api := newTestAPI(t)

	for _, body := range []string{
		webhookBody("   ", "user-7"),
		`{}`,
		`not json at all`,
	} {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/hooks/chat", strings.NewReader(body))
		api.ChatWebhook(recorder, req)
		if recorder.Code != http.StatusOK {
			t.Fatalf("body %q: expected 200, got %d", body, recorder.Code)
		}
		if text := decodeAck(t, recorder.Body.String()); text != "Message sent to the screen!" {
			t.Fatalf("body %q: unexpected ack %q", body, text)
		}
	}

	notes, err := api.newNoteService().List(context.Background())
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("nothing may persist, got %d notes", len(notes))
	}
}

func TestWebhookDefaultsUnknownUser(t *testing.T) {
	api := newTestAPI(t)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/hooks/chat", strings.NewReader(`{"userRequest":{"utterance":"hi"}}`))
	api.ChatWebhook(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("webhook returned %d", recorder.Code)
	}

	notes, _ := api.newNoteService().List(context.Background())
	if len(notes) != 1 || notes[0].UserID != "unknown" {
		t.Fatalf("expected the fallback sender id, got %+v", notes)
	}
}

func TestWebhookStoreFailureReturnsErrorTemplate(t *testing.T) {
	api := newTestAPI(t)
	api.Stores = &Stores{} // no note store behind the handler

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/hooks/chat", strings.NewReader(webhookBody("hi", "u")))
	api.ChatWebhook(recorder, req)
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
	if text := decodeAck(t, recorder.Body.String()); text != "Error sending message." {
		t.Fatalf("unexpected error text %q", text)
	}
}

func TestWebhookRateLimitAcksWithoutPersisting(t *testing.T) {
	api := newTestAPI(t)
	api.Limiter = newWebhookLimiter(1) // burst of one

	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/hooks/chat", strings.NewReader(webhookBody("hi", "u")))
		api.ChatWebhook(recorder, req)
		if recorder.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, recorder.Code)
		}
	}

	notes, _ := api.newNoteService().List(context.Background())
	if len(notes) != 1 {
		t.Fatalf("only the first request may persist, got %d notes", len(notes))
	}
	messages, _ := api.newMessageService().Recent(context.Background())
	if len(messages) != 1 {
		t.Fatalf("only the first request may reach the feed, got %d", len(messages))
	}
}
