package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/capture"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/drawing"
)

// Live event and reply types.
const (
	EventDown   = "down"
	EventMove   = "move"
	EventUp     = "up"
	EventErase  = "erase"
	EventClear  = "clear"
	EventSubmit = "submit"

	ReplySaved = "saved"
	ReplyError = "error"
)

type LiveEvent struct {
	Type    string         `json:"type"`
	Point   *drawing.Point `json:"point,omitempty"`
	Checked bool           `json:"checked,omitempty"`
}

type LiveReply struct {
	Type      string `json:"type"`
	PainAreas string `json:"pain_areas,omitempty"`
	Strokes   int    `json:"strokes,omitempty"`
	Error     string `json:"error,omitempty"`
}

// LiveSession drives a pain-area widget from pointer events streamed by a
// remote canvas. It is owned by one connection and not safe for
// concurrent use.
type LiveSession struct {
	svc      *PTService
	clientID uuid.UUID

	pad   *capture.Pad
	form  *capture.FormElement
	clear *capture.ButtonElement
	erase *capture.CheckboxElement
	field *capture.HiddenField

	points int
	closed bool
}

// OpenLiveSession loads the client's stored pain areas into a fresh
// widget.
func (s *PTService) OpenLiveSession(ctx context.Context, clientID uuid.UUID) (*LiveSession, error) {
	if err := requireClient(ctx, s.clients, clientID); err != nil {
		return nil, err
	}
	h, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}

	pad, err := s.canvas.painPad()
	if err != nil {
		return nil, fmt.Errorf("creating pain pad: %w", err)
	}

	ls := &LiveSession{
		svc:      s,
		clientID: clientID,
		pad:      pad,
		form:     capture.NewForm(),
		clear:    capture.NewButton(),
		erase:    capture.NewCheckbox(false),
		field:    capture.NewHiddenField(h.PainAreas),
	}
	if _, err := capture.NewPainAreaCapture(pad, ls.form, ls.clear, ls.erase, ls.field); err != nil {
		return nil, fmt.Errorf("loading stored pain areas: %w", err)
	}
	ls.points = pad.ToData().PointCount()

	s.metrics.LiveSessions.Inc()
	s.log.Debug("live session opened", zap.String("client_id", clientID.String()))
	return ls, nil
}

// Apply handles one event. Pointer events produce no reply; submit
// persists the drawing and replies with what was saved. Problems with a
// single event are reported in the reply and leave the session usable.
func (ls *LiveSession) Apply(ctx context.Context, ev LiveEvent) *LiveReply {
	switch ev.Type {
	case EventDown, EventMove, EventUp:
		if ev.Point == nil {
			return errorReply("%s event needs a point", ev.Type)
		}
		if ls.points >= ls.svc.canvas.MaxStrokePoints {
			// The open gesture ends at its last accepted point.
			ls.pad.EndStroke()
			return errorReply("%v", ErrTooManyPoints)
		}
		ls.points++
		switch ev.Type {
		case EventDown:
			ls.pad.PointerDown(*ev.Point)
			ls.svc.metrics.StrokesRecorded.WithLabelValues(string(ls.pad.Mode())).Inc()
		case EventMove:
			ls.pad.PointerMove(*ev.Point)
		case EventUp:
			ls.pad.PointerUp(*ev.Point)
		}
		return nil

	case EventErase:
		ls.erase.SetChecked(ev.Checked)
		return nil

	case EventClear:
		ls.clear.Click()
		ls.points = 0
		return nil

	case EventSubmit:
		if !ls.form.Submit() {
			return errorReply("could not encode pain areas")
		}
		h, err := ls.svc.SavePainAreas(ctx, ls.clientID, ls.field.Value(), "live")
		if err != nil {
			ls.svc.log.Error("live submit failed", zap.Error(err))
			return errorReply("could not save pain areas")
		}
		return &LiveReply{Type: ReplySaved, PainAreas: h.PainAreas, Strokes: len(ls.pad.ToData())}

	default:
		return errorReply("unknown event type %q", ev.Type)
	}
}

func (ls *LiveSession) Pad() *capture.Pad { return ls.pad }

func (ls *LiveSession) Close() {
	if ls.closed {
		return
	}
	ls.closed = true
	ls.svc.metrics.LiveSessions.Dec()
}

func errorReply(format string, args ...any) *LiveReply {
	return &LiveReply{Type: ReplyError, Error: fmt.Sprintf(format, args...)}
}
