package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"workspace_sync_client/internal/workspace/domain"
	"workspace_sync_client/pkg/config"
	errprocess "workspace_sync_client/pkg/err"
	"workspace_sync_client/pkg/logger"
	"workspace_sync_client/pkg/metrics"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// frame wire envelope of the realtime channel. Server events carry Event and
// Data; RPC responses echo the AckID of the request.
type frame struct {
	Event string          `json:"event"`
	AckID string          `json:"ackId,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// SocketGateway nhooyr websocket implementation of RealtimeGateway. One
// connection, one read loop, automatic reconnect with capped backoff.
type SocketGateway struct {
	url string
	cfg config.SocketConfig

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closed    bool
	sink      EventSink
	pending   map[string]chan frame
}

// NewSocketGateway create the realtime repository
func NewSocketGateway(url string, cfg config.SocketConfig) *SocketGateway {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = time.Second
	}
	if cfg.ReconnectDelayMax < cfg.ReconnectDelay {
		cfg.ReconnectDelayMax = 30 * time.Second
	}
	return &SocketGateway{
		url:     url,
		cfg:     cfg,
		pending: map[string]chan frame{},
	}
}

// Subscribe register the single event sink, returns the teardown func
func (g *SocketGateway) Subscribe(sink EventSink) func() {
	g.mu.Lock()
	g.sink = sink
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		if g.sink == sink {
			g.sink = nil
		}
		g.mu.Unlock()
	}
}

func (g *SocketGateway) currentSink() EventSink {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sink
}

// Connect dial the realtime endpoint. Blocks until the connection is
// established or the connect timeout elapses.
func (g *SocketGateway) Connect(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, g.cfg.ConnectTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, g.url, nil)
	if err != nil {
		if errors.Is(dialCtx.Err(), context.DeadlineExceeded) {
			return errprocess.ErrConnectionTimeout
		}
		return err
	}
	conn.SetReadLimit(1 << 20)

	g.mu.Lock()
	g.conn = conn
	g.connected = true
	g.closed = false
	g.mu.Unlock()

	go g.readLoop(conn)

	if sink := g.currentSink(); sink != nil {
		sink.OnConnected()
	}
	return nil
}

// Close tear the connection down and stop reconnecting
func (g *SocketGateway) Close() error {
	g.mu.Lock()
	g.closed = true
	g.connected = false
	conn := g.conn
	g.conn = nil
	g.mu.Unlock()
	if conn != nil {
		return conn.Close(websocket.StatusNormalClosure, "client shutdown")
	}
	return nil
}

// Connected whether the realtime channel is currently up
func (g *SocketGateway) Connected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.connected
}

// readLoop 持續讀取事件直到連線中斷, 中斷後交給 reconnectLoop
func (g *SocketGateway) readLoop(conn *websocket.Conn) {
	ctx := context.Background()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			logger.Log.Errorf("realtime frame decode failed", err)
			continue
		}
		if f.AckID != "" {
			g.deliverAck(f)
			continue
		}
		g.dispatch(f)
	}

	g.mu.Lock()
	wasClosed := g.closed
	g.connected = false
	if g.conn == conn {
		g.conn = nil
	}
	g.mu.Unlock()

	if sink := g.currentSink(); sink != nil {
		sink.OnDisconnected()
	}
	if !wasClosed {
		go g.reconnectLoop()
	}
}

// reconnectLoop redial with capped exponential backoff until up or Close
func (g *SocketGateway) reconnectLoop() {
	delay := g.cfg.ReconnectDelay
	for {
		time.Sleep(delay)

		g.mu.Lock()
		if g.closed {
			g.mu.Unlock()
			return
		}
		g.mu.Unlock()

		dialCtx, cancel := context.WithTimeout(context.Background(), g.cfg.ConnectTimeout)
		conn, _, err := websocket.Dial(dialCtx, g.url, nil)
		cancel()
		if err != nil {
			logger.Log.Warn("realtime reconnect failed, backing off")
			delay *= 2
			if delay > g.cfg.ReconnectDelayMax {
				delay = g.cfg.ReconnectDelayMax
			}
			continue
		}
		conn.SetReadLimit(1 << 20)

		g.mu.Lock()
		g.conn = conn
		g.connected = true
		g.mu.Unlock()

		metrics.Reconnects.Inc()
		go g.readLoop(conn)
		if sink := g.currentSink(); sink != nil {
			sink.OnConnected()
		}
		return
	}
}

func (g *SocketGateway) deliverAck(f frame) {
	g.mu.Lock()
	ch := g.pending[f.AckID]
	delete(g.pending, f.AckID)
	g.mu.Unlock()
	if ch != nil {
		ch <- f
	}
}

// dispatch decode a server event and hand it to the sink. Unknown event
// names are logged and dropped.
func (g *SocketGateway) dispatch(f frame) {
	sink := g.currentSink()
	if sink == nil {
		return
	}

	decode := func(out interface{}) bool {
		if err := json.Unmarshal(f.Data, out); err != nil {
			logger.Log.Errorf("realtime event decode failed: "+f.Event, err)
			metrics.EventsDropped.WithLabelValues(f.Event).Inc()
			return false
		}
		return true
	}

	switch domain.Event(f.Event) {
	case "sessionData":
		var ev domain.SessionData
		if decode(&ev) {
			sink.OnSessionData(ev)
		}
	case domain.EventMessage:
		var ev domain.MessageEvent
		if decode(&ev) {
			sink.OnMessage(ev)
		}
	case domain.EventNewMessage:
		var ev domain.NewMessageEvent
		if decode(&ev) {
			sink.OnNewMessage(ev)
		}
	case domain.EventReply:
		var ev domain.ReplyEvent
		if decode(&ev) {
			sink.OnReply(ev)
		}
	case domain.EventIsResolved:
		var ev domain.ResolveEvent
		if decode(&ev) {
			sink.OnResolved(ev)
		}
	case domain.EventIsDiscussionRequired:
		var ev domain.DiscussionEvent
		if decode(&ev) {
			sink.OnDiscussionRequired(ev)
		}
	case domain.EventUpdateNotifyUsers:
		var ev domain.NotifyUpdateEvent
		if decode(&ev) {
			sink.OnNotifyUsersUpdate(ev)
		}
	case domain.EventLikeMessage:
		var ev domain.LikeEvent
		if decode(&ev) {
			sink.OnLikeMessage(ev)
		}
	case domain.EventUnlikeMessage:
		var ev domain.UnlikeEvent
		if decode(&ev) {
			sink.OnUnlikeMessage(ev)
		}
	case domain.EventAddPin:
		var ev domain.PinEvent
		if decode(&ev) {
			sink.OnPinAdded(ev)
		}
	case domain.EventRemovePin:
		var ev domain.UnpinEvent
		if decode(&ev) {
			sink.OnPinRemoved(ev)
		}
	case domain.EventNewUserAdded:
		var ev domain.MembershipEvent
		if decode(&ev) {
			sink.OnNewUserAdded(ev)
		}
	case domain.EventChannelUserChange:
		var ev domain.MembershipEvent
		if decode(&ev) {
			sink.OnChannelUserChange(ev)
		}
	case domain.EventChannelUserDataChange:
		var ev domain.MembershipEvent
		if decode(&ev) {
			sink.OnChannelUserDataChange(ev)
		}
	case domain.EventDeleteChannel:
		var ev domain.ChannelRemovedEvent
		if decode(&ev) {
			sink.OnChannelDeleted(ev)
		}
	case domain.EventRemoveUserByAdmin:
		var ev domain.ChannelRemovedEvent
		if decode(&ev) {
			sink.OnUserRemovedByAdmin(ev)
		}
	case domain.EventUserJoinedChannel:
		var ev domain.PresenceEvent
		if decode(&ev) {
			sink.OnUserJoinedChannel(ev)
		}
	case domain.EventUserLeftChannel:
		var ev domain.PresenceEvent
		if decode(&ev) {
			sink.OnUserLeftChannel(ev)
		}
	default:
		logger.Log.Debug("realtime event ignored: " + f.Event)
		metrics.EventsDropped.WithLabelValues(f.Event).Inc()
	}
}

// emit fire-and-forget write. Requires the connection to be up.
func (g *SocketGateway) emit(event domain.Emit, data interface{}) error {
	return g.write(frame{Event: string(event)}, data)
}

func (g *SocketGateway) write(f frame, data interface{}) error {
	g.mu.Lock()
	conn := g.conn
	up := g.connected
	g.mu.Unlock()
	if !up || conn == nil {
		return errprocess.ErrTransportUnavailable
	}

	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		f.Data = raw
	}
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}

// rpc emit with an ack correlation id and wait for the response frame
func (g *SocketGateway) rpc(ctx context.Context, event domain.Emit, data interface{}) (frame, error) {
	ackID := uuid.NewString()
	ch := make(chan frame, 1)

	g.mu.Lock()
	g.pending[ackID] = ch
	g.mu.Unlock()

	if err := g.write(frame{Event: string(event), AckID: ackID}, data); err != nil {
		g.mu.Lock()
		delete(g.pending, ackID)
		g.mu.Unlock()
		return frame{}, err
	}

	select {
	case f := <-ch:
		return f, nil
	case <-ctx.Done():
		g.mu.Lock()
		delete(g.pending, ackID)
		g.mu.Unlock()
		return frame{}, ctx.Err()
	}
}

// JoinWorkspace enter a workspace room
func (g *SocketGateway) JoinWorkspace(workspaceID string) error {
	return g.emit(domain.EmitJoinWorkspace, map[string]string{"workspaceId": workspaceID})
}

// LeaveWorkspace leave a workspace room
func (g *SocketGateway) LeaveWorkspace(workspaceID string) error {
	return g.emit(domain.EmitLeaveWorkspace, map[string]string{"workspaceId": workspaceID})
}

// JoinChannel enter a channel room. The ack doubles as the access check and
// returns the session user's liked message ids for that channel.
func (g *SocketGateway) JoinChannel(ctx context.Context, channelID, workspaceID string) (*JoinChannelAck, error) {
	f, err := g.rpc(ctx, domain.EmitJoinChannel, map[string]string{
		"channelId":   channelID,
		"workspaceId": workspaceID,
	})
	if err != nil {
		return nil, err
	}
	var ack JoinChannelAck
	if len(f.Data) > 0 {
		if err := json.Unmarshal(f.Data, &ack); err != nil {
			return nil, err
		}
	}
	if f.Error != "" {
		ack.Error = f.Error
	}
	return &ack, nil
}

// LeaveChannel leave a channel room
func (g *SocketGateway) LeaveChannel(channelID string) error {
	return g.emit(domain.EmitLeaveChannel, map[string]string{"channelId": channelID})
}

// SendMessage fire a message add/edit/delete mutation
func (g *SocketGateway) SendMessage(payload domain.MessagePayload, workspaceID, channelID string) error {
	return g.emit(domain.EmitMessage, map[string]interface{}{
		"payload":     payload,
		"workspaceId": workspaceID,
		"channelId":   channelID,
	})
}

// SendReply fire a reply add/edit/delete mutation
func (g *SocketGateway) SendReply(payload domain.ReplyPayload, workspaceID, channelID string) error {
	return g.emit(domain.EmitReply, map[string]interface{}{
		"payload":     payload,
		"workspaceId": workspaceID,
		"channelId":   channelID,
	})
}

// SetResolved toggle the resolve flag of a message
func (g *SocketGateway) SetResolved(workspaceID, channelID, messageID string, isResolved bool) error {
	return g.emit(domain.EmitIsResolved, map[string]interface{}{
		"workspaceId": workspaceID,
		"channelId":   channelID,
		"messageId":   messageID,
		"isResolved":  isResolved,
	})
}

// SetDiscussionRequired toggle the discussion flag of a message
func (g *SocketGateway) SetDiscussionRequired(workspaceID, channelID, messageID string, isDiscussionRequired bool) error {
	return g.emit(domain.EmitIsDiscussionRequired, map[string]interface{}{
		"workspaceId":          workspaceID,
		"channelId":            channelID,
		"messageId":            messageID,
		"isDiscussionRequired": isDiscussionRequired,
	})
}

// UpdateNotifyUser add or remove the session user from a message's notify list
func (g *SocketGateway) UpdateNotifyUser(workspaceID, channelID, messageID string, isNotify bool) error {
	return g.emit(domain.EmitUpdateNotifyUser, map[string]interface{}{
		"workspaceId": workspaceID,
		"channelId":   channelID,
		"messageId":   messageID,
		"isNotify":    isNotify,
	})
}

// LikeMessage like or unlike a message
func (g *SocketGateway) LikeMessage(workspaceID, channelID, messageID string, isLiked bool) error {
	return g.emit(domain.EmitLikeMessage, map[string]interface{}{
		"workspaceId": workspaceID,
		"channelId":   channelID,
		"messageId":   messageID,
		"isLiked":     isLiked,
	})
}

// UnlikeMessage legacy unlike path, kept for protocol parity
func (g *SocketGateway) UnlikeMessage(workspaceID, channelID, messageID string, isUnliked bool) error {
	return g.emit(domain.EmitUnlikeMessage, map[string]interface{}{
		"workspaceId": workspaceID,
		"channelId":   channelID,
		"messageId":   messageID,
		"isUnliked":   isUnliked,
	})
}

// SetPinMessage pin a message in its channel
func (g *SocketGateway) SetPinMessage(workspaceID, channelID, messageID string) error {
	return g.emit(domain.EmitSetPinMessage, map[string]interface{}{
		"workspaceId": workspaceID,
		"channelId":   channelID,
		"messageId":   messageID,
	})
}

// RemovePinMessage clear a channel's pin
func (g *SocketGateway) RemovePinMessage(workspaceID, channelID, messageID string) error {
	return g.emit(domain.EmitRemovePinMessage, map[string]interface{}{
		"workspaceId": workspaceID,
		"channelId":   channelID,
		"messageId":   messageID,
	})
}

// NotificationRead mark a notification read
func (g *SocketGateway) NotificationRead(notificationID string) error {
	return g.emit(domain.EmitNotificationRead, map[string]string{
		"notificationId": notificationID,
	})
}

var _ RealtimeGateway = (*SocketGateway)(nil)
