package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"loan-aggregator/domain"
	"loan-aggregator/service"
)

const (
	liveMessageUpdate = "update" // debounced
	liveMessageApply  = "apply"  // immediate

	liveWriteTimeout = 5 * time.Second
)

type liveRequest struct {
	Type     string                `json:"type"`
	Criteria domain.FilterCriteria `json:"criteria"`
}

type liveResponse struct {
	Type   string            `json:"type"` // "lenders" or "error"
	Seq    uint64            `json:"seq,omitempty"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	lenderListResponse
}

// LiveHandler streams lender lists over a websocket while the user edits
// filters. Only the newest response is ever sent.
type LiveHandler struct {
	lenders        service.LenderLister
	window         time.Duration
	originPatterns []string
	log            zerolog.Logger
}

func NewLiveHandler(lenders service.LenderLister, window time.Duration, originPatterns []string, log zerolog.Logger) *LiveHandler {
	return &LiveHandler{
		lenders:        lenders,
		window:         window,
		originPatterns: originPatterns,
		log:            log.With().Str("handler", "live").Logger(),
	}
}

func (h *LiveHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		h.log.Debug().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var writeMu sync.Mutex
	send := func(msg liveResponse) {
		writeMu.Lock()
		defer writeMu.Unlock()
		wctx, wcancel := context.WithTimeout(ctx, liveWriteTimeout)
		defer wcancel()
		if err := wsjson.Write(wctx, conn, msg); err != nil {
			h.log.Debug().Err(err).Msg("Live write failed")
			cancel()
		}
	}

	session := service.NewLiveFilterSession(ctx, SessionID(r.Context()), h.lenders, h.window,
		func(u service.LiveUpdate) {
			if u.Err != nil && errors.Is(u.Err, domain.ErrInvalidInput) {
				send(invalidLiveResponse(u.Err))
				return
			}
			send(liveResponse{
				Type:               "lenders",
				Seq:                u.Seq,
				lenderListResponse: newLenderListResponse(u.Lenders, u.Err),
			})
		}, h.log)
	defer func() {
		cancel()
		session.Close()
	}()

	for {
		var msg liveRequest
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			h.log.Debug().Err(err).Msg("Live read ended")
			return
		}

		if err := service.ValidateCriteria(msg.Criteria); err != nil {
			send(invalidLiveResponse(err))
			continue
		}

		switch msg.Type {
		case liveMessageApply:
			session.Apply(msg.Criteria)
		case liveMessageUpdate, "":
			session.Update(msg.Criteria)
		default:
			send(liveResponse{Type: "error", Error: "unknown message type " + msg.Type})
		}
	}
}

func invalidLiveResponse(err error) liveResponse {
	resp := liveResponse{Type: "error", Error: err.Error()}
	var fields domain.ValidationErrors
	if errors.As(err, &fields) {
		resp.Fields = fields.Fields()
	}
	var field *domain.ValidationError
	if errors.As(err, &field) {
		resp.Fields = map[string]string{field.Field: field.Message}
	}
	return resp
}
