// Package chat implements the interactive side of chat elements: an ordered
// conversation with a simulated, rule-based assistant.
package chat

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/apricodi/builder/internal/schema"
)

// State is the conversation state of a Session.
type State int

const (
	// Idle accepts a new user message.
	Idle State = iota
	// AwaitingReply means the assistant is composing; the typing indicator is
	// shown and submissions are rejected.
	AwaitingReply
)

func (s State) String() string {
	if s == AwaitingReply {
		return "awaiting_reply"
	}
	return "idle"
}

var (
	ErrEmptyMessage  = errors.New("message is empty")
	ErrAwaitingReply = errors.New("assistant reply is pending")
	ErrClosed        = errors.New("chat session closed")
)

// Reply delay bounds used when no delay function is configured.
const (
	MinReplyDelay = 800 * time.Millisecond
	MaxReplyDelay = 1500 * time.Millisecond
)

// TimestampLayout formats message timestamps, e.g. "3:04 PM".
const TimestampLayout = "3:04 PM"

// Session is one chat element instance. Messages are only ever appended.
type Session struct {
	mu       sync.Mutex
	messages []schema.ChatMessage
	state    State
	matcher  *Matcher
	delay    func() time.Duration
	now      func() time.Time
	done     chan struct{}
	closed   bool
}

// Option configures a Session.
type Option func(*Session)

// WithDelay overrides the reply delay. Tests use it to remove the wait.
func WithDelay(fn func() time.Duration) Option {
	return func(s *Session) { s.delay = fn }
}

// WithClock overrides the clock used for user message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// RandomDelay returns a delay function uniformly distributed in [min, max).
func RandomDelay(min, max time.Duration) func() time.Duration {
	if max <= min {
		return func() time.Duration { return min }
	}
	return func() time.Duration {
		return min + rand.N(max-min)
	}
}

// NewSession seeds a conversation from el.Messages, or from the default
// greeting when the element has none.
func NewSession(el schema.Element, opts ...Option) *Session {
	seed := el.Messages
	if seed == nil {
		seed = schema.DefaultChatMessages()
	}

	s := &Session{
		messages: append([]schema.ChatMessage(nil), seed...),
		matcher:  NewMatcher(el),
		delay:    RandomDelay(MinReplyDelay, MaxReplyDelay),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit appends a user message and schedules the assistant reply. The reply
// is appended to the conversation after the delay and then delivered on the
// returned channel. If the session is closed before then, nothing is
// appended and the channel is closed without a value.
func (s *Session) Submit(text string) (schema.ChatMessage, <-chan schema.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return schema.ChatMessage{}, nil, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return schema.ChatMessage{}, nil, ErrClosed
	}
	if s.state == AwaitingReply {
		return schema.ChatMessage{}, nil, ErrAwaitingReply
	}

	msg := schema.ChatMessage{
		Role:      schema.RoleUser,
		Content:   text,
		Timestamp: s.now().Format(TimestampLayout),
	}
	s.messages = append(s.messages, msg)
	s.state = AwaitingReply

	out := make(chan schema.ChatMessage, 1)
	go s.compose(text, s.delay(), out)

	return msg, out, nil
}

func (s *Session) compose(text string, delay time.Duration, out chan<- schema.ChatMessage) {
	defer close(out)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-s.done:
		return
	}

	reply := schema.ChatMessage{
		Role:    schema.RoleAssistant,
		Content: s.matcher.Reply(text),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	reply.Timestamp = s.now().Format(TimestampLayout)
	s.messages = append(s.messages, reply)
	s.state = Idle
	s.mu.Unlock()

	out <- reply
}

// Messages returns a copy of the conversation.
func (s *Session) Messages() []schema.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]schema.ChatMessage(nil), s.messages...)
}

// State returns the current conversation state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close abandons the session. A pending reply is dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
}
