package bancho

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
	"gopkg.in/irc.v3"
)

const (
	DefaultAddr = "irc.ppy.sh:6667"
	// Bancho silences accounts that send faster than this.
	DefaultRate  = rate.Limit(1)
	DefaultBurst = 4

	outboxSize = 256
)

var (
	ErrDisconnected = errors.New("bancho connection closed")
	ErrLoginFailed  = errors.New("bancho rejected the login")
)

// Config holds the connection settings.
type Config struct {
	Addr     string
	Username string
	// Password is the IRC password from https://osu.ppy.sh/p/irc.
	Password string
	Rate     rate.Limit
	Burst    int
}

// Client is a single Bancho IRC connection. Outbound lines go through one
// rate limited queue so commands are applied in the order they were issued.
type Client struct {
	cfg     Config
	limiter *rate.Limiter
	outbox  chan string
	write   func(line string) error

	conn   net.Conn
	cancel context.CancelFunc

	welcome     chan struct{}
	welcomeOnce sync.Once
	created     chan *Lobby
	done        chan struct{}
	doneOnce    sync.Once
	err         error

	mu      sync.Mutex
	lobbies map[string]*Lobby
}

// NewClient creates a client. Connect must be called before use.
func NewClient(cfg Config) *Client {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Rate == 0 {
		cfg.Rate = DefaultRate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	return &Client{
		cfg:     cfg,
		limiter: rate.NewLimiter(cfg.Rate, cfg.Burst),
		outbox:  make(chan string, outboxSize),
		welcome: make(chan struct{}),
		created: make(chan *Lobby, 1),
		done:    make(chan struct{}),
		lobbies: make(map[string]*Lobby),
	}
}

// Connect dials Bancho and waits for the server welcome.
func (c *Client) Connect(ctx context.Context) error {
	log.Info("Connecting to Bancho", "addr", c.cfg.Addr, "user", c.cfg.Username)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.cfg.Addr)
	if err != nil {
		return fmt.Errorf("error dialing bancho: %w", err)
	}
	c.conn = conn

	ic := irc.NewClient(conn, irc.ClientConfig{
		Nick:          c.cfg.Username,
		Pass:          c.cfg.Password,
		User:          c.cfg.Username,
		Name:          c.cfg.Username,
		PingFrequency: time.Minute,
		PingTimeout:   2 * time.Minute,
		Handler:       irc.HandlerFunc(func(_ *irc.Client, m *irc.Message) { c.handle(m) }),
	})
	c.write = ic.Write

	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go func() {
		err := ic.RunContext(runCtx)
		if err != nil && runCtx.Err() == nil {
			log.Error("Bancho connection lost", "error", err)
		}
		c.finish(err)
	}()
	go c.writeLoop(runCtx)

	select {
	case <-c.welcome:
		log.Info("Connected to Bancho")
		return nil
	case <-c.done:
		if c.err != nil {
			return fmt.Errorf("error connecting to bancho: %w", c.err)
		}
		return ErrDisconnected
	case <-ctx.Done():
		c.Disconnect()
		return ctx.Err()
	}
}

// CreateLobby asks BanchoBot for a new tournament room and waits for it.
func (c *Client) CreateLobby(ctx context.Context, name string) (*Lobby, error) {
	if err := c.send(BotName, "!mp make "+name); err != nil {
		return nil, err
	}
	select {
	case l := <-c.created:
		log.Info("Lobby created", "name", l.Name(), "channel", l.Channel())
		return l, nil
	case <-c.done:
		return nil, ErrDisconnected
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for lobby %q: %w", name, ctx.Err())
	}
}

// Disconnect closes the connection and every lobby event stream.
func (c *Client) Disconnect() {
	if c.cancel != nil {
		c.cancel()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.finish(nil)
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) finish(err error) {
	c.doneOnce.Do(func() {
		c.err = err
		close(c.done)
		c.mu.Lock()
		defer c.mu.Unlock()
		for _, l := range c.lobbies {
			l.shutdown()
		}
	})
}

// send queues a PRIVMSG. It only blocks when the outbox is full.
func (c *Client) send(target, text string) error {
	text = strings.ReplaceAll(text, "\n", " ")
	select {
	case <-c.done:
		return ErrDisconnected
	default:
	}
	select {
	case c.outbox <- fmt.Sprintf("PRIVMSG %s :%s", target, text):
		return nil
	case <-c.done:
		return ErrDisconnected
	}
}

func (c *Client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case line := <-c.outbox:
			if err := c.limiter.Wait(ctx); err != nil {
				return
			}
			log.Debug("Bancho send", "line", line)
			if err := c.write(line); err != nil {
				log.Error("Failed to write to Bancho", "error", err)
			}
		}
	}
}

func (c *Client) handle(m *irc.Message) {
	switch m.Command {
	case "001":
		c.welcomeOnce.Do(func() { close(c.welcome) })
	case "464":
		log.Error("Bancho login failed", "reason", m.Trailing())
		c.finish(ErrLoginFailed)
	case "PRIVMSG":
		if m.Prefix == nil || len(m.Params) < 2 {
			return
		}
		c.handlePrivmsg(m.Prefix.Name, m.Params[0], m.Trailing())
	}
}

func (c *Client) handlePrivmsg(sender, target, text string) {
	if !strings.HasPrefix(target, "#") {
		if sender != BotName {
			log.Debug("Ignoring private message", "from", sender)
			return
		}
		if id, name, ok := parseCreated(text); ok {
			l := newLobby(id, name, c.send)
			c.mu.Lock()
			c.lobbies[l.Channel()] = l
			c.mu.Unlock()
			select {
			case c.created <- l:
			default:
				log.Warn("Unrequested lobby created", "channel", l.Channel())
			}
		}
		return
	}

	c.mu.Lock()
	l, ok := c.lobbies[target]
	c.mu.Unlock()
	if !ok {
		return
	}
	l.dispatch(sender, text)
}
