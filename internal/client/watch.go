package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"corkboard/internal/types"
)

// NotesSnapshot is one full-board event from the notes watch stream.
type NotesSnapshot struct {
	Notes types.Snapshot `json:"notes"`
}

// MessagesWindow is one recent-feed event from the messages watch stream.
type MessagesWindow struct {
	Messages []*types.Message `json:"messages"`
}

// WatchNotes subscribes to the notes stream. The first event is the
// current snapshot; afterwards one event arrives per mutation. Closing is
// driven by the returned cancel or the parent context.
func (c *Client) WatchNotes(ctx context.Context) (<-chan NotesSnapshot, func(), error) {
	return watchStream[NotesSnapshot](c, ctx, "/v1/notes/watch")
}

// WatchMessages subscribes to the recent chat window the same way.
func (c *Client) WatchMessages(ctx context.Context) (<-chan MessagesWindow, func(), error) {
	return watchStream[MessagesWindow](c, ctx, "/v1/messages/watch")
}

func watchStream[T any](c *Client, ctx context.Context, path string) (<-chan T, func(), error) {
	if err := c.ensureToken(); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "text/event-stream")

	// The shared client carries a request timeout that would cut a
	// long-lived stream; use a dedicated one.
	httpClient := &http.Client{}
	resp, err := httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		cancel()
		return nil, nil, decodeAPIError(resp)
	}

	ch := make(chan T, 16)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		var dataLines []string

		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				if len(dataLines) == 0 {
					continue
				}
				payload := strings.Join(dataLines, "\n")
				dataLines = dataLines[:0]
				var event T
				if err := json.Unmarshal([]byte(payload), &event); err == nil {
					// Every event is a complete snapshot, so dropping a
					// stale one while the reader is busy loses nothing.
					select {
					case ch <- event:
					default:
						select {
						case <-ch:
						default:
						}
						select {
						case ch <- event:
						default:
						}
					}
				}
				continue
			}
			if strings.HasPrefix(line, "data:") {
				dataLines = append(dataLines, strings.TrimSpace(line[len("data:"):]))
			}
		}
	}()

	return ch, cancel, nil
}
