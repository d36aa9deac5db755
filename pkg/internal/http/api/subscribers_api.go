package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"

	"github.com/hashtagwatch/monitor/pkg/internal/services"
)

type inboundMessage struct {
	ContentType string `json:"content_type"`
	Content     struct {
		Hashtag *string `json:"hashtag"`
	} `json:"content"`
}

type outboundMessage struct {
	ContentType string `json:"content_type"`
	Content     any    `json:"content"`
}

// handleSubscriber keeps one dashboard client in sync: a full snapshot on
// connect, another whenever the client narrows its hashtag filter, and one
// for every notification that matches the filter.
func handleSubscriber(conn *websocket.Conn) {
	events := services.Live.Subscribe()
	defer services.Live.Unsubscribe(events)

	filters := make(chan *string, 1)
	closed := make(chan struct{})

	go func() {
		defer close(closed)
		for {
			var message inboundMessage
			if err := conn.ReadJSON(&message); err != nil {
				return
			}
			if message.ContentType == "filter" {
				filters <- message.Content.Hashtag
			}
		}
	}()

	var selected *string
	push := func() bool {
		snapshot, err := services.BuildDashboard(selected)
		if err != nil {
			log.Error().Err(err).Msg("An error occurred when building dashboard for subscriber...")
			return true
		}
		return conn.WriteJSON(outboundMessage{ContentType: "sync", Content: snapshot}) == nil
	}

	if !push() {
		return
	}

	for {
		select {
		case <-closed:
			return
		case filter := <-filters:
			if (filter == nil) != (selected == nil) || (filter != nil && *filter != *selected) {
				selected = filter
				if !push() {
					return
				}
			}
		case event := <-events:
			if event.Type == services.EventNewPosts &&
				selected != nil && *selected != event.Hashtag {
				continue
			}
			if !push() {
				return
			}
		}
	}
}
