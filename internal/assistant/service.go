package assistant

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"quantum-pipeline/internal/domain"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	// ErrConversationReset is returned by Send when the conversation was
	// reset while the reply was pending. The reply is discarded.
	ErrConversationReset = errors.New("conversation was reset")
)

type conversation struct {
	generation uint64
	messages   []domain.Message
}

// Service keeps one conversation per owner.
type Service struct {
	delay  time.Duration
	logger *logrus.Logger
	now    func() time.Time

	mu            sync.Mutex
	generation    uint64
	conversations map[string]*conversation
}

func NewService(delay time.Duration, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		delay:         delay,
		logger:        logger,
		now:           time.Now,
		conversations: make(map[string]*conversation),
	}
}

// History returns the owner's conversation, starting a new one with the
// greeting when none exists.
func (s *Service) History(owner string) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.conversationLocked(owner).messages)
}

// Send records the user's message, waits the reply delay and records the
// bot's answer. When ctx ends during the delay the user message stays
// recorded without a reply. A Reset during the delay discards the reply.
func (s *Service) Send(ctx context.Context, owner, text string) (domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	conv := s.conversationLocked(owner)
	conv.messages = append(conv.messages, s.message(domain.SenderUser, text))
	generation := conv.generation
	s.mu.Unlock()

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return domain.Message{}, ctx.Err()
		case <-timer.C:
		}
	}

	reply := s.message(domain.SenderBot, Reply(text))
	s.mu.Lock()
	conv, ok := s.conversations[owner]
	if !ok || conv.generation != generation {
		s.mu.Unlock()
		s.logger.WithField("owner", owner).Debug("assistant reply dropped after reset")
		return domain.Message{}, ErrConversationReset
	}
	conv.messages = append(conv.messages, reply)
	s.mu.Unlock()

	s.logger.WithField("owner", owner).Debug("assistant replied")
	return reply, nil
}

// Reset drops the owner's conversation.
func (s *Service) Reset(owner string) {
	s.mu.Lock()
	delete(s.conversations, owner)
	s.mu.Unlock()
}

func (s *Service) message(sender, content string) domain.Message {
	return domain.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Content:   content,
		Timestamp: s.now(),
	}
}

func (s *Service) conversationLocked(owner string) *conversation {
	conv, ok := s.conversations[owner]
	if !ok {
		s.generation++
		conv = &conversation{
			generation: s.generation,
			messages:   []domain.Message{s.message(domain.SenderBot, Greeting)},
		}
		s.conversations[owner] = conv
	}
	return conv
}
