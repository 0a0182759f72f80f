package daemon

import (
	"context"
	"strings"

	"corkboard/internal/store"
	"corkboard/internal/types"
)

// recentMessageWindow is how many chat messages the feed exposes.
const recentMessageWindow = 10

type MessageService struct {
	messages store.MessageStore
	hub      *messageHub
}

func NewMessageService(stores *Stores, hub *messageHub) *MessageService {
	service := &MessageService{hub: hub}
	if stores != nil {
		service.messages = stores.Messages
	}
	return service
}

func (s *MessageService) Recent(ctx context.Context) ([]*types.Message, error) {
	if s.messages == nil {
		return nil, unavailableError("message store not available", nil)
	}
	messages, err := s.messages.ListRecent(ctx, recentMessageWindow)
	if err != nil {
		return nil, unavailableError(err.Error(), err)
	}
	return messages, nil
}

func (s *MessageService) Append(ctx context.Context, msg *types.Message) (*types.Message, error) {
	if s.messages == nil {
		return nil, unavailableError("message store not available", nil)
	}
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		return nil, invalidError("message text is required", nil)
	}
	appended, err := s.messages.Append(ctx, msg)
	if err != nil {
		return nil, unavailableError(err.Error(), err)
	}
	s.broadcast(ctx)
	return appended, nil
}

// Subscribe registers a watcher and returns the current recent window.
func (s *MessageService) Subscribe(ctx context.Context) ([]*types.Message, <-chan []*types.Message, func(), error) {
	recent, err := s.Recent(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if s.hub == nil {
		return nil, nil, nil, unavailableError("watch not available", nil)
	}
	ch, cancel := s.hub.Add()
	return recent, ch, cancel, nil
}

func (s *MessageService) broadcast(ctx context.Context) {
	if s.hub == nil {
		return
	}
	recent, err := s.messages.ListRecent(ctx, recentMessageWindow)
	if err != nil {
		return
	}
	s.hub.Broadcast(recent)
}
