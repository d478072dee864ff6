// Package chat serializes conversation submissions and builds backend chat
// requests.
package chat

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/i18n"
	"github.com/quka-ai/course-console/pkg/safe"
	"github.com/quka-ai/course-console/pkg/types"
)

// ErrBusy is the cause of every rejection caused by an in-flight submission.
var ErrBusy = stderrors.New("chat request still processing")

const (
	OUTCOME_OK               = "ok"
	OUTCOME_ERROR            = "error"
	OUTCOME_REJECTED_BUSY    = "rejected_busy"
	OUTCOME_REJECTED_INVALID = "rejected_invalid"
)

// Sender issues the chat call. *backend.ChatAPI implements it.
type Sender interface {
	Chat(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error)
}

type Observer interface {
	ObserveChat(outcome string)
}

// Submission is the raw user input of one question.
type Submission struct {
	ConversationID   string
	ChatEngineType   string
	Question         string
	CourseID         string
	CourseMaterialID string
	CollectionName   string
}

// BuildRequest validates a submission and resolves the course filter: when
// both ids are given, course_id wins and the material id is dropped.
func BuildRequest(sub Submission) (types.ChatRequest, error) {
	req := types.ChatRequest{
		ConversationID: strings.TrimSpace(sub.ConversationID),
		ChatEngineType: strings.TrimSpace(sub.ChatEngineType),
		Question:       strings.TrimSpace(sub.Question),
		CollectionName: strings.TrimSpace(sub.CollectionName),
	}

	switch {
	case req.ConversationID == "":
		return req, errors.Validation("chat.BuildRequest", i18n.T(i18n.ERROR_CHAT_CONVERSATION_REQUIRED))
	case req.ChatEngineType == "":
		return req, errors.Validation("chat.BuildRequest", i18n.T(i18n.ERROR_CHAT_ENGINE_REQUIRED))
	case req.Question == "":
		return req, errors.Validation("chat.BuildRequest", i18n.T(i18n.ERROR_CHAT_QUESTION_REQUIRED))
	}

	if courseID := strings.TrimSpace(sub.CourseID); courseID != "" {
		req.CourseID = courseID
	} else {
		req.CourseMaterialID = strings.TrimSpace(sub.CourseMaterialID)
	}
	return req, nil
}

// Sequencer allows one chat submission in flight at a time.
type Sequencer struct {
	sender     Sender
	observer   Observer
	processing atomic.Bool
}

func NewSequencer(sender Sender, observer Observer) *Sequencer {
	return &Sequencer{sender: sender, observer: observer}
}

func (s *Sequencer) IsProcessing() bool {
	return s.processing.Load()
}

func (s *Sequencer) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveChat(outcome)
	}
}

func busyError() error {
	return errors.New("Sequencer.Submit", i18n.T(i18n.ERROR_CHAT_STILL_PROCESSING), ErrBusy).Kind(errors.KindValidation)
}

// acquire validates the submission and takes the processing flag.
func (s *Sequencer) acquire(sub Submission) (types.ChatRequest, error) {
	if s.processing.Load() {
		s.observe(OUTCOME_REJECTED_BUSY)
		return types.ChatRequest{}, busyError()
	}

	req, err := BuildRequest(sub)
	if err != nil {
		s.observe(OUTCOME_REJECTED_INVALID)
		return req, err
	}

	if !s.processing.CompareAndSwap(false, true) {
		s.observe(OUTCOME_REJECTED_BUSY)
		return types.ChatRequest{}, busyError()
	}
	return req, nil
}

func (s *Sequencer) send(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error) {
	defer s.processing.Store(false)

	res, err := s.sender.Chat(ctx, req)
	if err != nil {
		s.observe(OUTCOME_ERROR)
		slog.Error("chat request failed",
			slog.String("conversation_id", req.ConversationID),
			slog.String("error", err.Error()),
			slog.String("component", "Sequencer.send"))
		return nil, errors.Trace("Sequencer.send", err)
	}
	s.observe(OUTCOME_OK)
	return res, nil
}

// Submit sends one question and blocks until the backend answers.
func (s *Sequencer) Submit(ctx context.Context, sub Submission) (*types.ChatResponse, error) {
	req, err := s.acquire(sub)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, req)
}

// SubmitAsync validates and takes the processing flag synchronously, then
// delivers the answer to done from a background goroutine.
func (s *Sequencer) SubmitAsync(ctx context.Context, sub Submission, done func(*types.ChatResponse, error)) error {
	req, err := s.acquire(sub)
	if err != nil {
		return err
	}
	safe.Go("chat.SubmitAsync", func() {
		res, err := s.send(ctx, req)
		if done != nil {
			done(res, err)
		}
	})
	return nil
}
