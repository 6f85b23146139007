// Package bridge drives an avatar rendered by the SDK in a browser page. The
// page opens a websocket to the Server, receives commands and reports its
// loading progress, state and subtitles back.
package bridge

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-avatar/core/avatar"
)

const (
	DefaultGatewayURL  = "https://nebula-agent.xingyun3d.com/user/v1/ttsa/session"
	DefaultDataSource  = "2"
	DefaultCustomID    = "demo"
	DefaultInitTimeout = 3 * time.Second

	containerPrefix = "CONTAINER_"
)

var _ avatar.Connector = (*Server)(nil)

type Server struct {
	options  Options
	upgrader websocket.Upgrader
	pages    chan *websocket.Conn
}

type Options struct {
	GatewayURL  string
	DataSource  string
	CustomID    string
	InitTimeout time.Duration
	// CheckOrigin is passed to the websocket upgrader. Any origin is
	// accepted when nil.
	CheckOrigin func(r *http.Request) bool
}

type Option func(*Options)

func WithGatewayURL(gatewayURL string) Option {
	return func(o *Options) {
		if gatewayURL != "" {
			o.GatewayURL = gatewayURL
		}
	}
}

func WithGatewayParams(dataSource, customID string) Option {
	return func(o *Options) {
		o.DataSource = dataSource
		o.CustomID = customID
	}
}

func WithInitTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.InitTimeout = timeout
		}
	}
}

func WithCheckOrigin(checkOrigin func(r *http.Request) bool) Option {
	return func(o *Options) { o.CheckOrigin = checkOrigin }
}

func NewServer(opts ...Option) *Server {
	options := Options{
		GatewayURL:  DefaultGatewayURL,
		DataSource:  DefaultDataSource,
		CustomID:    DefaultCustomID,
		InitTimeout: DefaultInitTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}

	checkOrigin := options.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	return &Server{
		options:  options,
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
		pages:    make(chan *websocket.Conn, 1),
	}
}

// ServeHTTP accepts a page connection. Only one page may wait for Connect at
// a time.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("failed to upgrade avatar page connection", "error", err)
		return
	}

	select {
	case s.pages <- conn:
		logger.Info("avatar page connected", "remote_addr", r.RemoteAddr)
	default:
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, ErrPageBusy.Error()))
		conn.Close()
	}
}

// Connect waits for a page, then initializes the avatar in it with
// credentials. It returns once the avatar has loaded.
func (s *Server) Connect(ctx context.Context, credentials avatar.Credentials) (avatar.Avatar, error) {
	gatewayServer, err := s.gatewayServer()
	if err != nil {
		return nil, err
	}

	var conn *websocket.Conn
	select {
	case conn = <-s.pages:
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to wait for avatar page: %w", ctx.Err())
	}

	page := newPage(conn, initMessage{
		Type:          messageTypeInit,
		ContainerID:   NewContainerID(),
		AppID:         credentials.AppID,
		AppSecret:     credentials.AppSecret,
		GatewayServer: gatewayServer,
	}, s.options.InitTimeout)

	if err := page.Init(ctx); err != nil {
		_ = page.Destroy(context.Background())
		return nil, err
	}
	return page, nil
}

func (s *Server) gatewayServer() (string, error) {
	return GatewayServer(s.options.GatewayURL, s.options.DataSource, s.options.CustomID)
}

// GatewayServer returns gatewayURL with the data source and custom id query
// parameters the avatar service expects. Empty values are left out.
func GatewayServer(gatewayURL, dataSource, customID string) (string, error) {
	u, err := url.Parse(gatewayURL)
	if err != nil {
		return "", fmt.Errorf("invalid avatar gateway url: %w", err)
	}
	query := u.Query()
	if dataSource != "" {
		query.Set("data_source", dataSource)
	}
	if customID != "" {
		query.Set("custom_id", customID)
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// NewContainerID returns a random id for the element the avatar is rendered
// into.
func NewContainerID() string {
	id := uuid.New()
	return containerPrefix + hex.EncodeToString(id[:8])
}
