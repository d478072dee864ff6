package chat

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/types"
)

type fakeSender struct {
	mu      sync.Mutex
	calls   []types.ChatRequest
	release chan struct{}
	entered chan struct{}
	err     error
}

func (f *fakeSender) Chat(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &types.ChatResponse{Answer: "answer to " + req.Question, ConversationID: req.ConversationID}, nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type outcomes struct {
	mu   sync.Mutex
	list []string
}

func (o *outcomes) ObserveChat(outcome string) {
	o.mu.Lock()
	o.list = append(o.list, outcome)
	o.mu.Unlock()
}

func valid() Submission {
	return Submission{
		ConversationID: "chat_1_abcdef",
		ChatEngineType: types.CHAT_ENGINE_CONDENSE_PLUS_CONTEXT,
		Question:       "what is a closure?",
	}
}

func TestBuildRequest_CourseIDWins(t *testing.T) {
	sub := valid()
	sub.CourseID = "a"
	sub.CourseMaterialID = "b"

	req, err := BuildRequest(sub)
	require.NoError(t, err)
	assert.Equal(t, "a", req.CourseID)
	assert.Empty(t, req.CourseMaterialID)

	sub.CourseID = "  "
	req, err = BuildRequest(sub)
	require.NoError(t, err)
	assert.Empty(t, req.CourseID)
	assert.Equal(t, "b", req.CourseMaterialID)
}

func TestBuildRequest_RequiredFields(t *testing.T) {
	for name, mutate := range map[string]func(*Submission){
		"conversation": func(s *Submission) { s.ConversationID = " " },
		"engine":       func(s *Submission) { s.ChatEngineType = "" },
		"question":     func(s *Submission) { s.Question = "\n" },
	} {
		t.Run(name, func(t *testing.T) {
			sub := valid()
			mutate(&sub)
			_, err := BuildRequest(sub)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindValidation))
		})
	}
}

func TestSequencer_InvalidSubmissionSkipsBackend(t *testing.T) {
	sender := &fakeSender{}
	obs := &outcomes{}
	s := NewSequencer(sender, obs)

	sub := valid()
	sub.ChatEngineType = ""
	_, err := s.Submit(context.Background(), sub)
	require.Error(t, err)
	assert.Zero(t, sender.count())
	assert.False(t, s.IsProcessing())
	assert.Equal(t, []string{OUTCOME_REJECTED_INVALID}, obs.list)
}

func TestSequencer_RejectsWhileProcessing(t *testing.T) {
	sender := &fakeSender{release: make(chan struct{}), entered: make(chan struct{}, 1)}
	obs := &outcomes{}
	s := NewSequencer(sender, obs)

	result := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), valid())
		result <- err
	}()
	<-sender.entered
	assert.True(t, s.IsProcessing())

	_, err := s.Submit(context.Background(), valid())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1, sender.count())

	close(sender.release)
	require.NoError(t, <-result)
	assert.False(t, s.IsProcessing())

	sender.release = nil
	sender.entered = nil
	res, err := s.Submit(context.Background(), valid())
	require.NoError(t, err)
	assert.Equal(t, "answer to what is a closure?", res.Answer)
	assert.Equal(t, 2, sender.count())
	assert.Equal(t, []string{OUTCOME_REJECTED_BUSY, OUTCOME_OK, OUTCOME_OK}, obs.list)
}

func TestSequencer_ResetsAfterFailure(t *testing.T) {
	boom := stderrors.New("HTTP 500: Internal Server Error")
	sender := &fakeSender{err: boom}
	s := NewSequencer(sender, nil)

	_, err := s.Submit(context.Background(), valid())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.IsProcessing())

	sender.err = nil
	_, err = s.Submit(context.Background(), valid())
	require.NoError(t, err)
}

func TestSequencer_SubmitAsync(t *testing.T) {
	sender := &fakeSender{release: make(chan struct{})}
	s := NewSequencer(sender, nil)

	answers := make(chan *types.ChatResponse, 1)
	require.NoError(t, s.SubmitAsync(context.Background(), valid(), func(res *types.ChatResponse, err error) {
		assert.NoError(t, err)
		answers <- res
	}))
	assert.True(t, s.IsProcessing())
	assert.ErrorIs(t, s.SubmitAsync(context.Background(), valid(), nil), ErrBusy)

	close(sender.release)
	select {
	case res := <-answers:
		assert.Equal(t, "chat_1_abcdef", res.ConversationID)
	case <-time.After(2 * time.Second):
		t.Fatal("no answer")
	}
	require.Eventually(t, func() bool { return !s.IsProcessing() }, time.Second, time.Millisecond)
}
