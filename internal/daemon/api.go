package daemon

import (
	"context"

	"corkboard/internal/logging"
)

type API struct {
	Version  string
	Stores   *Stores
	Notes    *noteHub
	Chat     *messageHub
	Limiter  *webhookLimiter
	Shutdown func(context.Context) error
	Logger   logging.Logger
}

func (a *API) newNoteService() *NoteService {
	return NewNoteService(a.Stores, a.Notes)
}

func (a *API) newMessageService() *MessageService {
	return NewMessageService(a.Stores, a.Chat)
}
