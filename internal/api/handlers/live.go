package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"

	"github.com/voxstream/voxstream-backend/internal/persist"
	"github.com/voxstream/voxstream-backend/internal/services"
)

// liveMessage is one event on the live ingest socket.
type liveMessage struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Model     string `json:"model,omitempty"`
	Language  string `json:"language,omitempty"`
	Recording bool   `json:"recording,omitempty"`
}

type liveReply struct {
	Type     string                   `json:"type"`
	Appended bool                     `json:"appended,omitempty"`
	Error    string                   `json:"error,omitempty"`
	State    *persist.DisplaySnapshot `json:"state,omitempty"`
}

// LiveSocket ingests transcript chunks, model/language switches and
// recording-state changes from the browser client. Every mutation schedules
// an autosave through the live state's change hook; stopping recording
// forces an immediate flush.
func LiveSocket(svc *services.Services) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		for {
			var msg liveMessage
			if err := c.ReadJSON(&msg); err != nil {
				return
			}

			switch msg.Type {
			case "chunk":
				appended := svc.Live.AppendChunk(msg.Text)
				if err := c.WriteJSON(liveReply{Type: "chunk", Appended: appended}); err != nil {
					return
				}

			case "model":
				svc.Live.SetModel(msg.Model)
				svc.Persist.SetLastModel(msg.Model)

			case "language":
				svc.Live.SetLanguage(msg.Language)

			case "recording":
				svc.Live.SetRecording(msg.Recording)
				if !msg.Recording {
					if err := svc.Persist.Flush(context.Background(), persist.ReasonStop); err != nil {
						svc.Logger.WithError(err).Warn("stop flush failed")
					}
				}

			case "clear":
				svc.Live.Clear()

			case "state":
				snap := svc.Display.Snapshot()
				if err := c.WriteJSON(liveReply{Type: "state", State: &snap}); err != nil {
					return
				}

			default:
				if err := c.WriteJSON(liveReply{Type: "error", Error: "unknown message type"}); err != nil {
					return
				}
			}
		}
	}
}
