package onebot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/gorilla/websocket"
)

// Client speaks the OneBot v11 websocket protocol against a host like napcat:
// events are pushed by the host, action calls are sent on the same socket and
// correlated to responses by an echo token.
type Client struct {
	Host        string
	AccessToken string
	Logger      *slog.Logger
	// Timeout bounds each action call round-trip. Defaults to 15s.
	Timeout time.Duration

	conn    *websocket.Conn
	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan *actionResponse
	seq       atomic.Uint64
}

type actionRequest struct {
	Action string `json:"action"`
	Params any    `json:"params"`
	Echo   string `json:"echo"`
}

type actionResponse struct {
	Status  string          `json:"status"`
	Retcode int             `json:"retcode"`
	Data    json.RawMessage `json:"data"`
	Echo    string          `json:"echo"`
	Message string          `json:"message"`
}

var _ ActionAPI = (*Client)(nil)

func NewClient(host, accessToken string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		Host:        host,
		AccessToken: accessToken,
		Logger:      logger,
		Timeout:     15 * time.Second,
		pending:     make(map[string]chan *actionResponse),
	}
}

// Dial establishes the websocket connection. Must be called before Run or any
// action call.
func (c *Client) Dial(ctx context.Context) error {
	hdr := http.Header{
		"User-Agent": []string{fmt.Sprintf("groupguard/%s", versioninfo.Short())},
	}
	if c.AccessToken != "" {
		hdr.Set("Authorization", "Bearer "+c.AccessToken)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.Host, hdr)
	if err != nil {
		return fmt.Errorf("dialing onebot host failed: %w", err)
	}
	c.conn = conn
	c.Logger.Info("connected to onebot host", "host", c.Host)
	return nil
}

// Run reads frames until the connection breaks or ctx is cancelled,
// dispatching event frames to the callbacks and routing action responses to
// their waiting callers. Callback errors are logged, not fatal: one bad event
// must not take down the stream.
func (c *Client) Run(ctx context.Context, cb *EventCallbacks) error {
	if c.conn == nil {
		return fmt.Errorf("onebot client is not connected")
	}
	go func() {
		<-ctx.Done()
		_ = c.conn.Close()
	}()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading event stream: %w", err)
		}
		if resp := decodeActionResponse(raw); resp != nil {
			c.deliverResponse(resp)
			continue
		}
		if err := dispatchEvent(raw, cb); err != nil {
			c.Logger.Error("event processing failed", "err", err)
		}
	}
}

// Action response frames carry an echo and no post_type.
func decodeActionResponse(raw []byte) *actionResponse {
	var probe struct {
		PostType string `json:"post_type"`
		Echo     string `json:"echo"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil
	}
	if probe.PostType != "" || probe.Echo == "" {
		return nil
	}
	var resp actionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil
	}
	return &resp
}

func (c *Client) deliverResponse(resp *actionResponse) {
	c.pendingMu.Lock()
	ch, ok := c.pending[resp.Echo]
	if ok {
		delete(c.pending, resp.Echo)
	}
	c.pendingMu.Unlock()
	if !ok {
		c.Logger.Warn("dropping unmatched action response", "echo", resp.Echo)
		return
	}
	ch <- resp
}

func (c *Client) call(ctx context.Context, action string, params any, out any) error {
	if c.conn == nil {
		return fmt.Errorf("onebot client is not connected")
	}
	echo := strconv.FormatUint(c.seq.Add(1), 10)
	ch := make(chan *actionResponse, 1)
	c.pendingMu.Lock()
	c.pending[echo] = ch
	c.pendingMu.Unlock()

	req := actionRequest{Action: action, Params: params, Echo: echo}
	c.writeMu.Lock()
	err := c.conn.WriteJSON(&req)
	c.writeMu.Unlock()
	if err != nil {
		c.pendingMu.Lock()
		delete(c.pending, echo)
		c.pendingMu.Unlock()
		return fmt.Errorf("sending action %s: %w", action, err)
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	select {
	case resp := <-ch:
		if resp.Retcode != 0 {
			return fmt.Errorf("action %s failed: retcode=%d %s", action, resp.Retcode, resp.Message)
		}
		if out != nil && len(resp.Data) > 0 {
			if err := json.Unmarshal(resp.Data, out); err != nil {
				return fmt.Errorf("decoding %s response: %w", action, err)
			}
		}
		return nil
	case <-time.After(timeout):
		c.pendingMu.Lock()
		delete(c.pending, echo)
		c.pendingMu.Unlock()
		return fmt.Errorf("action %s timed out", action)
	case <-ctx.Done():
		c.pendingMu.Lock()
		delete(c.pending, echo)
		c.pendingMu.Unlock()
		return ctx.Err()
	}
}

func (c *Client) Kick(ctx context.Context, groupID, userID string) error {
	return c.call(ctx, "set_group_kick", map[string]any{
		"group_id":           groupID,
		"user_id":            userID,
		"reject_add_request": false,
	}, nil)
}

func (c *Client) Mute(ctx context.Context, groupID, userID string, d time.Duration) error {
	return c.call(ctx, "set_group_ban", map[string]any{
		"group_id": groupID,
		"user_id":  userID,
		"duration": int(d.Seconds()),
	}, nil)
}

func (c *Client) SetWholeGroupMute(ctx context.Context, groupID string, enabled bool) error {
	return c.call(ctx, "set_group_whole_ban", map[string]any{
		"group_id": groupID,
		"enable":   enabled,
	}, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	return c.call(ctx, "delete_msg", map[string]any{"message_id": messageID}, nil)
}

func (c *Client) SetCard(ctx context.Context, groupID, userID, card string) error {
	return c.call(ctx, "set_group_card", map[string]any{
		"group_id": groupID,
		"user_id":  userID,
		"card":     card,
	}, nil)
}

func (c *Client) SetSpecialTitle(ctx context.Context, groupID, userID, title string) error {
	return c.call(ctx, "set_group_special_title", map[string]any{
		"group_id":      groupID,
		"user_id":       userID,
		"special_title": title,
	}, nil)
}

func (c *Client) ReactToMessage(ctx context.Context, messageID, emojiID string) error {
	return c.call(ctx, "set_msg_emoji_like", map[string]any{
		"message_id": messageID,
		"emoji_id":   emojiID,
	}, nil)
}

func (c *Client) SendGroupMessage(ctx context.Context, groupID string, content []Segment) error {
	return c.call(ctx, "send_group_msg", map[string]any{
		"group_id": groupID,
		"message":  content,
	}, nil)
}

func (c *Client) SendForwardNodes(ctx context.Context, groupID string, nodes []Segment) error {
	return c.call(ctx, "send_group_forward_msg", map[string]any{
		"group_id": groupID,
		"messages": nodes,
	}, nil)
}

func (c *Client) SendPrivateMessage(ctx context.Context, userID string, content []Segment) error {
	return c.call(ctx, "send_private_msg", map[string]any{
		"user_id": userID,
		"message": content,
	}, nil)
}

func (c *Client) MemberInfo(ctx context.Context, groupID, userID string) (*MemberInfo, error) {
	var raw struct {
		UserID   json.Number `json:"user_id"`
		Nickname string      `json:"nickname"`
		Card     string      `json:"card"`
		Role     string      `json:"role"`
	}
	err := c.call(ctx, "get_group_member_info", map[string]any{
		"group_id": groupID,
		"user_id":  userID,
		"no_cache": true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return &MemberInfo{
		UserID:   raw.UserID.String(),
		Nickname: raw.Nickname,
		Card:     raw.Card,
		Role:     raw.Role,
	}, nil
}
