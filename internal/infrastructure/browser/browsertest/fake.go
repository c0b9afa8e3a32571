// Package browsertest provides in-memory browser sessions for tests.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
)

var ErrClosed = errors.New("fake session closed")

var (
	_ output.BrowserPort        = (*Browser)(nil)
	_ output.BrowserContextPort = (*Session)(nil)
)

// Session records every call and serves canned page content.
type Session struct {
	mu sync.Mutex

	URL        string
	HTML       string
	Text       string
	Elements   []entity.UIElement
	Shot       *entity.Screenshot
	Err        error
	Calls      []string
	Closed     bool
	CloseCount int
}

func NewSession() *Session {
	return &Session{
		URL:  "about:blank",
		Shot: &entity.Screenshot{Data: []byte{0xFF, 0xD8, 0xFF}, Format: "jpeg", Width: 1, Height: 1},
	}
}

func (s *Session) record(call string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, call)
	if s.Closed {
		return ErrClosed
	}
	return s.Err
}

func (s *Session) CallLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Calls...)
}

func (s *Session) Navigate(_ context.Context, url string) error {
	if err := s.record("navigate " + url); err != nil {
		return err
	}
	s.mu.Lock()
	s.URL = url
	s.mu.Unlock()
	return nil
}

func (s *Session) Click(_ context.Context, selector string) error {
	return s.record("click " + selector)
}

func (s *Session) Fill(_ context.Context, selector, text string) error {
	return s.record(fmt.Sprintf("fill %s=%s", selector, text))
}

func (s *Session) PressEnter(context.Context) error {
	return s.record("press_enter")
}

func (s *Session) Scroll(_ context.Context, direction string) error {
	return s.record("scroll " + direction)
}

func (s *Session) GetPageHTML(context.Context) (string, error) {
	if err := s.record("html"); err != nil {
		return "", err
	}
	return s.HTML, nil
}

func (s *Session) GetPageText(context.Context) (string, error) {
	if err := s.record("text"); err != nil {
		return "", err
	}
	return s.Text, nil
}

func (s *Session) GetUIElements(context.Context) ([]entity.UIElement, error) {
	if err := s.record("ui"); err != nil {
		return nil, err
	}
	return s.Elements, nil
}

func (s *Session) Screenshot(context.Context) (*entity.Screenshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "screenshot")
	if s.Closed {
		return nil, ErrClosed
	}
	if s.Shot == nil {
		return nil, errors.New("no screenshot")
	}
	return s.Shot, nil
}

func (s *Session) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.URL
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	s.CloseCount++
	return nil
}

// Browser hands out sessions built by NewSessionFunc, or fresh ones.
type Browser struct {
	mu sync.Mutex

	NewSessionFunc func() *Session
	OpenErr        error
	Sessions       []*Session
	Closed         bool
}

func (b *Browser) NewContext(context.Context) (output.BrowserContextPort, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	s := NewSession()
	if b.NewSessionFunc != nil {
		s = b.NewSessionFunc()
	}
	b.Sessions = append(b.Sessions, s)
	return s, nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Closed = true
	return nil
}
