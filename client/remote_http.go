package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	ws "github.com/coder/websocket"
	"github.com/sethvargo/go-retry"
)

// HTTPRemote implements Remote against the shophouse server's REST API and
// its websocket notification endpoint.
type HTTPRemote struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

type HTTPOption func(*HTTPRemote)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(r *HTTPRemote) {
		r.httpClient = c
	}
}

func NewHTTPRemote(baseURL string, opts ...HTTPOption) *HTTPRemote {
	r := &HTTPRemote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetToken installs a session token, for resuming a persisted session
// without signing in again.
func (r *HTTPRemote) SetToken(token string) {
	r.mu.Lock()
	r.token = token
	r.mu.Unlock()
}

func (r *HTTPRemote) currentToken() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token
}

// do performs a JSON request and decodes the response into out, which may be
// nil for endpoints with empty responses.
func (r *HTTPRemote) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RemoteError{Op: method + " " + path, Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reqBody)
	if err != nil {
		return &RemoteError{Op: method + " " + path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := r.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return &RemoteError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthenticated
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return &RemoteError{Op: method + " " + path, Err: fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error)}
		}
		return &RemoteError{Op: method + " " + path, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &RemoteError{Op: method + " " + path, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

type sessionPayload struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (r *HTTPRemote) SignUp(ctx context.Context, email, password, fullName string) (*Identity, error) {
	var resp sessionPayload
	err := r.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	}, &resp)
	if err != nil {
		return nil, err
	}
	r.SetToken(resp.Token)
	return &Identity{UserID: resp.UserID, Email: resp.Email, Token: resp.Token}, nil
}

func (r *HTTPRemote) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	var resp sessionPayload
	err := r.do(ctx, http.MethodPost, "/api/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	r.SetToken(resp.Token)
	return &Identity{UserID: resp.UserID, Email: resp.Email, Token: resp.Token}, nil
}

func (r *HTTPRemote) SignOut(ctx context.Context) error {
	err := r.do(ctx, http.MethodPost, "/api/auth/signout", nil, nil)
	r.SetToken("")
	return err
}

func (r *HTTPRemote) CreateHouse(ctx context.Context, name string) (*House, error) {
	var house House
	if err := r.do(ctx, http.MethodPost, "/api/houses", map[string]string{"name": name}, &house); err != nil {
		return nil, err
	}
	return &house, nil
}

func (r *HTTPRemote) JoinHouse(ctx context.Context, inviteCode string) (*House, error) {
	var house House
	if err := r.do(ctx, http.MethodPost, "/api/houses/join", map[string]string{"invite_code": inviteCode}, &house); err != nil {
		return nil, err
	}
	return &house, nil
}

func (r *HTTPRemote) ListHouses(ctx context.Context) ([]House, error) {
	var houses []House
	if err := r.do(ctx, http.MethodGet, "/api/houses", nil, &houses); err != nil {
		return nil, err
	}
	return houses, nil
}

func (r *HTTPRemote) ListItems(ctx context.Context, houseID string) ([]Item, error) {
	var items []Item
	if err := r.do(ctx, http.MethodGet, "/api/houses/"+houseID+"/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *HTTPRemote) AddItem(ctx context.Context, houseID, name string, quantity int) (*Item, error) {
	var item Item
	err := r.do(ctx, http.MethodPost, "/api/houses/"+houseID+"/items", map[string]any{
		"name":     name,
		"quantity": quantity,
	}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *HTTPRemote) ToggleBought(ctx context.Context, itemID string) (*Item, error) {
	var item Item
	if err := r.do(ctx, http.MethodPost, "/api/items/"+itemID+"/toggle", nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *HTTPRemote) DeleteItem(ctx context.Context, itemID string) error {
	return r.do(ctx, http.MethodDelete, "/api/items/"+itemID, nil, nil)
}

// Subscribe dials the websocket notification endpoint for the house. The
// dial is retried with exponential backoff a bounded number of times; loads
// and mutations are never retried.
func (r *HTTPRemote) Subscribe(ctx context.Context, houseID string) (Subscription, error) {
	wsURL := strings.Replace(r.baseURL, "http", "ws", 1) +
		"/ws?house_id=" + houseID + "&token=" + r.currentToken()

	var conn *ws.Conn
	backoff := retry.WithMaxRetries(4, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		conn, _, err = ws.Dial(ctx, wsURL, &ws.DialOptions{HTTPClient: r.httpClient})
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, &RemoteError{Op: "subscribe", Err: err}
	}

	sub := &wsSubscription{
		conn:   conn,
		events: make(chan Event),
	}
	subCtx, cancel := context.WithCancel(context.Background())
	sub.cancel = cancel
	go sub.readLoop(subCtx)
	return sub, nil
}

type wsSubscription struct {
	conn      *ws.Conn
	events    chan Event
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func (s *wsSubscription) Events() <-chan Event {
	return s.events
}

func (s *wsSubscription) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.conn.Close(ws.StatusNormalClosure, "")
	})
	return nil
}

func (s *wsSubscription) readLoop(ctx context.Context) {
	defer close(s.events)
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			return
		}

		var msg struct {
			Entity  string `json:"entity"`
			Action  string `json:"action"`
			HouseID string `json:"house_id"`
			ID      string `json:"id"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		select {
		case s.events <- Event{Entity: msg.Entity, Action: msg.Action, HouseID: msg.HouseID, ID: msg.ID}:
		case <-ctx.Done():
			return
		}
	}
}
