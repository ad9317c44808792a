package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/dancefloor/backend/internal/logging"
	"github.com/dancefloor/backend/internal/services"
)

// dispatchTimeout bounds the store work done for one inbound event.
const dispatchTimeout = 15 * time.Second

// dispatch routes one inbound event to the shared services. Failures are
// reported to the sender with an error event; the connection stays open.
func (h *Handler) dispatch(c *Client, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	ctx = logging.WithRequestAttrs(ctx, &logging.RequestAttrs{
		Method: "WS",
		Path:   frame.Event,
		IP:     c.IP,
		DJID:   c.Principal.ID,
	})

	switch frame.Event {
	case eventJoinDancefloor:
		h.join(ctx, c, frame.Data)
	case eventSongRequest:
		h.songRequest(ctx, c, frame.Data)
	case eventSendMessage:
		h.sendMessage(ctx, c, frame.Data)
	case eventStatusUpdate:
		h.statusUpdate(ctx, c, frame.Data)
	case eventLikeSongRequest:
		h.like(ctx, c, frame.Data)
	case eventReorder:
		h.reorder(ctx, c, frame.Data)
	default:
		c.logger().Debug("ignoring unknown event", slog.String("event", frame.Event))
	}
}

// fail sends errEvent to the client. Service errors carry their own message;
// anything else is logged and replaced with fallback.
func (h *Handler) fail(ctx context.Context, c *Client, errEvent string, err error, fallback string) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		fields := append(logging.RequestFields(ctx), slog.String("client_id", c.ID), slog.Any("error", logging.WrapError(err, fallback)))
		slog.ErrorContext(ctx, "socket event failed", fields...)
	}
	c.sendError(errEvent, services.ClientMessage(err, fallback))
}

func (h *Handler) allow(ctx context.Context, c *Client, errEvent string) bool {
	if h.limiter == nil || h.limiter.Allow(c.IP) {
		return true
	}
	logging.LogSecurityEvent(ctx, logging.SecurityEventRateLimited, "socket rate limit exceeded")
	c.sendError(errEvent, "Rate limit exceeded.")
	return false
}

func (h *Handler) join(ctx context.Context, c *Client, data json.RawMessage) {
	id, err := decodeJoin(data)
	if err != nil || id == "" {
		c.sendError(errorJoin, services.ErrMissingDancefloor.Message)
		return
	}
	if _, err := h.dancefloors.Lookup(ctx, id); err != nil {
		h.fail(ctx, c, errorJoin, err, "Failed to join dancefloor.")
		return
	}
	if err := h.broker.Join(c.sub, id); err != nil {
		h.fail(ctx, c, errorJoin, err, "Failed to join dancefloor.")
		return
	}

	c.logger().Info("joined dancefloor", slog.String("dancefloor_id", id))
	h.chat.AnnounceJoin(id, c.Name)
}

func (h *Handler) songRequest(ctx context.Context, c *Client, data json.RawMessage) {
	var p songRequestPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendError(errorSongRequest, "Invalid song request.")
		return
	}
	if !h.allow(ctx, c, errorSongRequest) {
		return
	}

	if _, err := h.queue.Submit(ctx, p.DancefloorID, c.ID, p.Song); err != nil {
		h.fail(ctx, c, errorSongRequest, err, "Failed to submit song request.")
	}
}

func (h *Handler) sendMessage(ctx context.Context, c *Client, data json.RawMessage) {
	var p sendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendError(errorMessage, "Invalid message.")
		return
	}
	if !h.allow(ctx, c, errorMessage) {
		return
	}

	author := p.AuthorID
	if author == "" {
		author = p.DJID
	}
	if _, err := h.chat.Post(ctx, p.DancefloorID, p.Message, author); err != nil {
		h.fail(ctx, c, errorMessage, err, "Failed to send message.")
	}
}

func (h *Handler) statusUpdate(ctx context.Context, c *Client, data json.RawMessage) {
	var p statusUpdatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendError(errorStatus, services.ErrInvalidStatus.Message)
		return
	}

	if _, err := h.queue.SetStatus(ctx, c.Principal, p.RequestID, p.Status); err != nil {
		h.fail(ctx, c, errorStatus, err, "Failed to update song status.")
	}
}

func (h *Handler) like(ctx context.Context, c *Client, data json.RawMessage) {
	var p likePayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendError(errorLike, "Invalid like.")
		return
	}

	if _, err := h.queue.Vote(ctx, p.RequestID, c.ID); err != nil {
		h.fail(ctx, c, errorLike, err, "Failed to like song request.")
	}
}

func (h *Handler) reorder(ctx context.Context, c *Client, data json.RawMessage) {
	var p reorderPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendError(errorReorder, "Invalid reorder.")
		return
	}

	if _, err := h.queue.Reorder(ctx, c.Principal, p.DancefloorID, p.Order); err != nil {
		h.fail(ctx, c, errorReorder, err, "Failed to reorder song requests.")
	}
}
