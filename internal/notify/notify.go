// Package notify delivers rendered alert text to chat channels. Senders
// report the upstream HTTP status so callers can record delivery outcomes;
// a zero status means the request never reached the remote end.
package notify

import (
	"context"
	"net/http"
	"time"
)

type Sender interface {
	Name() string
	Send(ctx context.Context, text string) (status int, err error)
}

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: 5 * time.Second}
}
