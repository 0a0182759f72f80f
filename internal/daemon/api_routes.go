package daemon

import "net/http"

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", a.Health)
	mux.HandleFunc("/v1/notes", a.NotesCollection)
	mux.HandleFunc("/v1/notes/watch", a.WatchNotes)
	mux.HandleFunc("/v1/notes/", a.NoteByID)
	mux.HandleFunc("/v1/messages", a.Messages)
	mux.HandleFunc("/v1/messages/watch", a.WatchMessages)
	mux.HandleFunc("/v1/shutdown", a.ShutdownDaemon)
	mux.HandleFunc("/hooks/chat", a.ChatWebhook)
}
