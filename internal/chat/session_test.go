package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/calendargpt/calendargpt/internal/domain"
)

type fakeBackend struct {
	mu sync.Mutex

	hasCredentials bool
	credentialsErr error
	initReply      string
	initErr        error
	processReply   *domain.ResponsePayload
	processErr     error
	extractReply   *domain.ResponsePayload
	extractErr     error

	// block keeps ProcessText pending until released, to exercise the
	// in-flight guard.
	block chan struct{}

	processCalls int
	extractCalls int
}

func (f *fakeBackend) CheckCredentials(ctx context.Context, userID string) (bool, error) {
	return f.hasCredentials, f.credentialsErr
}

func (f *fakeBackend) InitAI(ctx context.Context, userID string) (string, error) {
	return f.initReply, f.initErr
}

func (f *fakeBackend) ProcessText(ctx context.Context, text, userID string) (*domain.ResponsePayload, error) {
	f.mu.Lock()
	f.processCalls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.processReply, f.processErr
}

func (f *fakeBackend) ExtractFile(ctx context.Context, filename string, data []byte, userID, note string) (*domain.ResponsePayload, error) {
	f.mu.Lock()
	f.extractCalls++
	f.mu.Unlock()
	return f.extractReply, f.extractErr
}

type fakeAuth struct {
	mu           sync.Mutex
	signOutErr   error
	signOutHangs bool
	signOutCalls int
	clearCalls   int
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.signOutCalls++
	hang := f.signOutHangs
	f.mu.Unlock()
	if hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.signOutErr
}

func (f *fakeAuth) ClearLocal() error {
	f.mu.Lock()
	f.clearCalls++
	f.mu.Unlock()
	return nil
}

func newTestController(b *fakeBackend, a *fakeAuth) *Controller {
	return NewController(b, a, "alice", Options{
		SettleDelay:    time.Millisecond,
		SignOutTimeout: 50 * time.Millisecond,
		MaxFileSize:    1024,
	})
}

func TestInitWithCredentials(t *testing.T) {
	backend := &fakeBackend{
		hasCredentials: true,
		initReply:      `userReply: "Hi! How can I help with your schedule today?"`,
	}
	c := newTestController(backend, &fakeAuth{})

	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].IsFromUser {
		t.Error("greeting should not be a user message")
	}
	if msgs[0].Content != "Hi! How can I help with your schedule today?" {
		t.Errorf("greeting = %q", msgs[0].Content)
	}
	if msgs[0].ID == "" {
		t.Error("message ID should be set")
	}
}

func TestInitWithoutCredentials(t *testing.T) {
	c := newTestController(&fakeBackend{hasCredentials: false}, &fakeAuth{})

	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 1 || msgs[0].Content != CredentialPrompt {
		t.Fatalf("messages = %+v, want credential prompt", msgs)
	}
}

func TestInitBackendFailure(t *testing.T) {
	backend := &fakeBackend{credentialsErr: errors.New("connection refused")}
	c := newTestController(backend, &fakeAuth{})

	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 1 || msgs[0].Content != ServiceUnavailable {
		t.Fatalf("messages = %+v, want service unavailable", msgs)
	}
}

func TestInitRunsOnce(t *testing.T) {
	backend := &fakeBackend{hasCredentials: true, initReply: "hello"}
	c := newTestController(backend, &fakeAuth{})

	ctx := context.Background()
	if err := c.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := c.Init(ctx); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}

	if got := len(c.Messages()); got != 1 {
		t.Errorf("got %d messages after double init, want 1", got)
	}
}

func TestSubmitTextAddsOneMessageEachSide(t *testing.T) {
	backend := &fakeBackend{
		processReply: &domain.ResponsePayload{Response: "Done!"},
	}
	c := newTestController(backend, &fakeAuth{})

	if err := c.SubmitText(context.Background(), "  schedule lunch tomorrow  "); err != nil {
		t.Fatalf("SubmitText() error = %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if !msgs[0].IsFromUser || msgs[0].Content != "schedule lunch tomorrow" {
		t.Errorf("user message = %+v", msgs[0])
	}
	if msgs[1].IsFromUser || msgs[1].Content != "Done!" {
		t.Errorf("assistant message = %+v", msgs[1])
	}
}

func TestSubmitTextEmpty(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(backend, &fakeAuth{})

	if err := c.SubmitText(context.Background(), "   "); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("error = %v, want ErrEmptyMessage", err)
	}
	if len(c.Messages()) != 0 {
		t.Error("empty submission must not append a message")
	}
	if backend.processCalls != 0 {
		t.Error("empty submission must not reach the backend")
	}
}

func TestSubmitTextErrorBecomesMessage(t *testing.T) {
	backend := &fakeBackend{processErr: errors.New("boom")}
	c := newTestController(backend, &fakeAuth{})

	if err := c.SubmitText(context.Background(), "hello"); err != nil {
		t.Fatalf("SubmitText() error = %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 2 || msgs[1].Content != ProcessError {
		t.Fatalf("messages = %+v, want process error message", msgs)
	}
}

func TestSubmitTextWhileInFlight(t *testing.T) {
	backend := &fakeBackend{
		block:        make(chan struct{}),
		processReply: &domain.ResponsePayload{Response: "ok"},
	}
	c := newTestController(backend, &fakeAuth{})

	done := make(chan error, 1)
	go func() {
		done <- c.SubmitText(context.Background(), "first")
	}()

	// Wait for the first submission to claim the flag.
	deadline := time.After(time.Second)
	for !c.Awaiting() {
		select {
		case <-deadline:
			t.Fatal("first submission never became in-flight")
		case <-time.After(time.Millisecond):
		}
	}

	if err := c.SubmitText(context.Background(), "second"); !errors.Is(err, domain.ErrRequestInFlight) {
		t.Fatalf("error = %v, want ErrRequestInFlight", err)
	}

	close(backend.block)
	if err := <-done; err != nil {
		t.Fatalf("first submission error = %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2 (second submission dropped)", len(msgs))
	}
	if backend.processCalls != 1 {
		t.Errorf("processCalls = %d, want 1", backend.processCalls)
	}
}

func TestSubmitFileTooLarge(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(backend, &fakeAuth{})

	big := make([]byte, 2048)
	if err := c.SubmitFile(context.Background(), "big.pdf", big, ""); !errors.Is(err, domain.ErrFileTooLarge) {
		t.Fatalf("error = %v, want ErrFileTooLarge", err)
	}
	if backend.extractCalls != 0 {
		t.Error("oversized file must not reach the backend")
	}
	if len(c.Messages()) != 0 {
		t.Error("oversized file must not append a message")
	}
}

func TestSubmitFileWithNote(t *testing.T) {
	backend := &fakeBackend{
		extractReply: &domain.ResponsePayload{Response: "Scheduled from your file."},
	}
	c := newTestController(backend, &fakeAuth{})

	if err := c.SubmitFile(context.Background(), "notes.txt", []byte("body"), "please add these"); err != nil {
		t.Fatalf("SubmitFile() error = %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if !msgs[0].IsFromUser || msgs[0].Content != "please add these" {
		t.Errorf("user message = %+v", msgs[0])
	}
	if msgs[1].Content != "Scheduled from your file." {
		t.Errorf("assistant message = %+v", msgs[1])
	}
}

func TestSubmitFileErrorBecomesMessage(t *testing.T) {
	backend := &fakeBackend{extractErr: errors.New("boom")}
	c := newTestController(backend, &fakeAuth{})

	if err := c.SubmitFile(context.Background(), "notes.txt", []byte("body"), ""); err != nil {
		t.Fatalf("SubmitFile() error = %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 1 || msgs[0].Content != FileError {
		t.Fatalf("messages = %+v, want file error message", msgs)
	}
}

func TestLogoutClearsState(t *testing.T) {
	backend := &fakeBackend{hasCredentials: true, initReply: "hi"}
	auth := &fakeAuth{}
	c := newTestController(backend, auth)

	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	c.Logout(context.Background())

	if auth.signOutCalls != 1 {
		t.Errorf("signOutCalls = %d, want 1", auth.signOutCalls)
	}
	if auth.clearCalls != 1 {
		t.Errorf("clearCalls = %d, want 1", auth.clearCalls)
	}
	if len(c.Messages()) != 0 {
		t.Error("logout must clear the transcript")
	}
}

func TestLogoutCompletesWhenSignOutHangs(t *testing.T) {
	auth := &fakeAuth{signOutHangs: true}
	c := newTestController(&fakeBackend{}, auth)

	start := time.Now()
	c.Logout(context.Background())
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Errorf("Logout took %v, should be bounded by sign-out timeout", elapsed)
	}
	if auth.clearCalls != 1 {
		t.Error("local state must be cleared even when remote sign-out hangs")
	}
}

func TestLogoutClearsLocalOnRemoteError(t *testing.T) {
	auth := &fakeAuth{signOutErr: errors.New("server down")}
	c := newTestController(&fakeBackend{}, auth)

	c.Logout(context.Background())

	if auth.clearCalls != 1 {
		t.Error("local state must be cleared even when remote sign-out fails")
	}
}
