// File path: internal/telegram/client.go

// Package telegram drives the userbot session that relays FAM lookups to the
// bot sitting in the configured group.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/tg"

	"github.com/famnet/famapi/internal/common"
	"github.com/famnet/famapi/internal/fam"
)

var (
	// ErrLookupTimeout is returned when the bot does not answer a command
	// within the configured deadline.
	ErrLookupTimeout = errors.New("timeout waiting for bot response")
	// ErrNotAuthorized is returned when the stored session is missing or no
	// longer valid.
	ErrNotAuthorized = errors.New("telegram session not authorized; run \"famapi session generate\"")
)

// Client is a connected userbot. It sends /fam commands into the group and
// captures the bot replies arriving as channel updates.
type Client struct {
	cfg    Config
	client *telegram.Client
	sender *message.Sender

	ready     chan struct{}
	connected atomic.Bool

	mu     sync.Mutex
	peer   *tg.InputPeerChannel
	waiter chan string
}

// New constructs a Client from the configuration. The client connects when
// Run is called.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if !cfg.hasSession() {
		return nil, ErrNotAuthorized
	}
	storage, err := sessionStorage(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{cfg: cfg, ready: make(chan struct{})}
	dispatcher := tg.NewUpdateDispatcher()
	dispatcher.OnNewChannelMessage(c.onChannelMessage)
	c.client = telegram.NewClient(cfg.APIID, cfg.APIHash, telegram.Options{
		SessionStorage: storage,
		UpdateHandler:  dispatcher,
	})
	c.sender = message.NewSender(c.client.API())
	return c, nil
}

// sessionStorage builds the gotd session storage for the configured
// credentials. A Telethon string session is imported into memory; a session
// file is used in place.
func sessionStorage(cfg Config) (telegram.SessionStorage, error) {
	if trimmed := strings.TrimSpace(cfg.SessionString); trimmed != "" {
		data, err := session.TelethonSession(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse telethon session string: %w", err)
		}
		storage := new(session.StorageMemory)
		loader := session.Loader{Storage: storage}
		if err := loader.Save(context.Background(), data); err != nil {
			return nil, fmt.Errorf("import session string: %w", err)
		}
		return storage, nil
	}
	if trimmed := strings.TrimSpace(cfg.SessionFile); trimmed != "" {
		return &session.FileStorage{Path: trimmed}, nil
	}
	return new(session.StorageMemory), nil
}

// Run connects and serves updates until ctx is cancelled. It blocks; callers
// that need the client in the background run it in a goroutine and gate on
// WaitReady.
func (c *Client) Run(ctx context.Context) error {
	logger := common.Logger()
	return c.client.Run(ctx, func(ctx context.Context) error {
		status, err := c.client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status: %w", err)
		}
		if !status.Authorized {
			return ErrNotAuthorized
		}
		self, err := c.client.Self(ctx)
		if err != nil {
			return fmt.Errorf("load self: %w", err)
		}
		logger.Info("telegram: connected", "name", self.FirstName, "username", self.Username)
		peer, err := c.resolvePeer(ctx)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.peer = peer
		c.mu.Unlock()
		c.connected.Store(true)
		defer c.connected.Store(false)
		close(c.ready)
		logger.Info("telegram: lookup group resolved", "channel", peer.ChannelID)
		<-ctx.Done()
		return ctx.Err()
	})
}

// WaitReady blocks until the client is connected and the lookup group is
// resolved, or ctx ends.
func (c *Client) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Connected reports whether the client currently holds a live connection.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

func (c *Client) resolvePeer(ctx context.Context) (*tg.InputPeerChannel, error) {
	chat := strings.TrimSpace(c.cfg.Chat)
	if id, ok := parseChannelID(chat); ok {
		return c.findChannelByID(ctx, id)
	}
	return c.resolveUsername(ctx, strings.TrimPrefix(chat, "@"))
}

// parseChannelID understands the -100-prefixed form Telegram clients display
// for supergroups as well as a bare numeric ID.
func parseChannelID(chat string) (int64, bool) {
	raw := chat
	if strings.HasPrefix(raw, "-100") {
		raw = raw[len("-100"):]
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (c *Client) resolveUsername(ctx context.Context, username string) (*tg.InputPeerChannel, error) {
	if username == "" {
		return nil, errors.New("lookup chat required")
	}
	resolved, err := c.client.API().ContactsResolveUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("resolve chat %s: %w", username, err)
	}
	for _, chat := range resolved.Chats {
		if channel, ok := chat.(*tg.Channel); ok {
			return &tg.InputPeerChannel{ChannelID: channel.ID, AccessHash: channel.AccessHash}, nil
		}
	}
	return nil, fmt.Errorf("chat %s is not a supergroup", username)
}

// findChannelByID scans the dialog list for the channel carrying the
// configured ID, picking up the access hash along the way.
func (c *Client) findChannelByID(ctx context.Context, id int64) (*tg.InputPeerChannel, error) {
	dialogs, err := c.client.API().MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      100,
	})
	if err != nil {
		return nil, fmt.Errorf("list dialogs: %w", err)
	}
	var chats []tg.ChatClass
	switch d := dialogs.(type) {
	case *tg.MessagesDialogs:
		chats = d.Chats
	case *tg.MessagesDialogsSlice:
		chats = d.Chats
	default:
		return nil, fmt.Errorf("unexpected dialogs response %T", dialogs)
	}
	for _, chat := range chats {
		channel, ok := chat.(*tg.Channel)
		if !ok {
			continue
		}
		if channel.ID == id {
			return &tg.InputPeerChannel{ChannelID: channel.ID, AccessHash: channel.AccessHash}, nil
		}
	}
	return nil, fmt.Errorf("channel %d not found in dialog list", id)
}

// onChannelMessage filters group traffic down to bot replies that carry FAM
// markers and hands them to the pending lookup, if any.
func (c *Client) onChannelMessage(ctx context.Context, e tg.Entities, update *tg.UpdateNewChannelMessage) error {
	logger := common.Logger()
	msg, ok := update.Message.(*tg.Message)
	if !ok || msg.Out {
		return nil
	}
	peerID, ok := msg.PeerID.(*tg.PeerChannel)
	if !ok {
		return nil
	}
	c.mu.Lock()
	target := c.peer
	c.mu.Unlock()
	if target == nil || peerID.ChannelID != target.ChannelID {
		return nil
	}
	from, ok := msg.FromID.(*tg.PeerUser)
	if !ok {
		return nil
	}
	sender, ok := e.Users[from.UserID]
	if !ok || !sender.Bot {
		return nil
	}
	text := msg.Message
	if doc := attachedDocument(msg); doc != nil {
		content, err := c.downloadDocument(ctx, doc)
		if err != nil {
			logger.Warn("telegram: could not read attachment", "error", err)
		} else if content != "" {
			text = content
		}
	}
	if !fam.HasMarkers(text) {
		logger.Debug("telegram: ignoring bot message without markers")
		return nil
	}
	logger.Debug("telegram: bot reply captured", "bytes", len(text))
	c.deliver(text)
	return nil
}

func (c *Client) deliver(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waiter == nil {
		return
	}
	select {
	case c.waiter <- text:
	default:
	}
}
