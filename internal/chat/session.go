package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/calendargpt/calendargpt/internal/config"
	"github.com/calendargpt/calendargpt/internal/domain"
)

// Backend is the set of remote operations the controller depends on.
type Backend interface {
	CheckCredentials(ctx context.Context, userID string) (bool, error)
	InitAI(ctx context.Context, userID string) (string, error)
	ProcessText(ctx context.Context, text, userID string) (*domain.ResponsePayload, error)
	ExtractFile(ctx context.Context, filename string, data []byte, userID, note string) (*domain.ResponsePayload, error)
}

// Auth is the sign-out side of the auth provider: a best-effort remote call
// plus local cleanup that must always succeed from the user's perspective.
type Auth interface {
	SignOut(ctx context.Context) error
	ClearLocal() error
}

// Options tune the controller; zero values fall back to defaults.
type Options struct {
	SettleDelay    time.Duration
	SignOutTimeout time.Duration
	MaxFileSize    int64
}

// Controller drives one chat session: it owns the ordered message history,
// issues backend calls, and feeds responses through the interpreter. At most
// one submission is in flight at a time.
type Controller struct {
	backend Backend
	auth    Auth
	userID  string

	settleDelay    time.Duration
	signOutTimeout time.Duration
	maxFileSize    int64

	mu          sync.Mutex
	messages    []domain.ChatMessage
	inFlight    bool
	initialized bool
}

func NewController(backend Backend, auth Auth, userID string, opts Options) *Controller {
	if opts.SettleDelay == 0 {
		opts.SettleDelay = config.InitSettleDelay
	}
	if opts.SignOutTimeout == 0 {
		opts.SignOutTimeout = config.SignOutTimeout
	}
	if opts.MaxFileSize == 0 {
		opts.MaxFileSize = config.MaxUploadSize
	}
	return &Controller{
		backend:        backend,
		auth:           auth,
		userID:         userID,
		settleDelay:    opts.SettleDelay,
		signOutTimeout: opts.SignOutTimeout,
		maxFileSize:    opts.MaxFileSize,
	}
}

// Init runs the startup sequence once: credential presence check, then the
// model greeting. The settle delay gives the credential write triggered by
// sign-in time to land before the first read.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return nil
	}
	c.initialized = true
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.settleDelay):
	}

	has, err := c.backend.CheckCredentials(ctx, c.userID)
	if err != nil {
		slog.Error("check credentials", "error", err)
		c.append(ServiceUnavailable, false)
		return nil
	}
	if !has {
		c.append(CredentialPrompt, false)
		return nil
	}

	reply, err := c.backend.InitAI(ctx, c.userID)
	if err != nil {
		slog.Error("init ai", "error", err)
		c.append(ServiceUnavailable, false)
		return nil
	}
	c.append(ExtractReply(reply), false)
	return nil
}

// SubmitText sends one user message. Empty input and concurrent submissions
// are rejected before anything is appended or sent.
func (c *Controller) SubmitText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyMessage
	}

	if !c.begin(text) {
		return domain.ErrRequestInFlight
	}
	defer c.finish()

	payload, err := c.backend.ProcessText(ctx, text, c.userID)
	if err != nil {
		slog.Error("process text", "error", err)
		c.append(ProcessError, false)
		return nil
	}
	c.append(Interpret(payload), false)
	return nil
}

// SubmitFile uploads a document with an optional note. Oversized files are
// rejected before any network call.
func (c *Controller) SubmitFile(ctx context.Context, filename string, data []byte, note string) error {
	if int64(len(data)) > c.maxFileSize {
		return domain.ErrFileTooLarge
	}

	note = strings.TrimSpace(note)

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return domain.ErrRequestInFlight
	}
	c.inFlight = true
	if note != "" {
		c.messages = append(c.messages, domain.NewChatMessage(note, true))
	}
	c.mu.Unlock()
	defer c.finish()

	payload, err := c.backend.ExtractFile(ctx, filename, data, c.userID, note)
	if err != nil {
		slog.Error("extract file", "error", err)
		c.append(FileError, false)
		return nil
	}
	c.append(Interpret(payload), false)
	return nil
}

// Logout signs out remotely with a bounded wait, then unconditionally clears
// local auth state. It always completes, whether the remote call resolves,
// errors, or never returns.
func (c *Controller) Logout(ctx context.Context) {
	signOutCtx, cancel := context.WithTimeout(ctx, c.signOutTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- c.auth.SignOut(signOutCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			slog.Warn("remote sign-out failed", "error", err)
		}
	case <-signOutCtx.Done():
		slog.Warn("remote sign-out timed out", "timeout", c.signOutTimeout)
	}

	if err := c.auth.ClearLocal(); err != nil {
		slog.Warn("clear local auth state", "error", err)
	}

	c.mu.Lock()
	c.messages = nil
	c.initialized = false
	c.mu.Unlock()
}

// Messages returns a snapshot of the transcript in append order.
func (c *Controller) Messages() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Awaiting reports whether a submission is currently in flight.
func (c *Controller) Awaiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// begin atomically claims the in-flight flag and appends the optimistic user
// message.
func (c *Controller) begin(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return false
	}
	c.inFlight = true
	c.messages = append(c.messages, domain.NewChatMessage(text, true))
	return true
}

func (c *Controller) finish() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

func (c *Controller) append(content string, fromUser bool) {
	c.mu.Lock()
	c.messages = append(c.messages, domain.NewChatMessage(content, fromUser))
	c.mu.Unlock()
}
