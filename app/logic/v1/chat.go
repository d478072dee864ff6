package v1

import (
	"context"

	"github.com/quka-ai/course-console/app/core"
	"github.com/quka-ai/course-console/pkg/chat"
	"github.com/quka-ai/course-console/pkg/types"
	"github.com/quka-ai/course-console/pkg/utils"
)

type ChatLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewChatLogic(ctx context.Context, core *core.Core) *ChatLogic {
	return &ChatLogic{ctx: ctx, core: core}
}

// Send asks one question; a second call while one is in flight is rejected.
func (l *ChatLogic) Send(sub chat.Submission) (*types.ChatResponse, error) {
	return l.core.Chat().Submit(l.ctx, sub)
}

func (l *ChatLogic) SendAsync(sub chat.Submission, done func(*types.ChatResponse, error)) error {
	return l.core.Chat().SubmitAsync(l.ctx, sub, done)
}

func (l *ChatLogic) Processing() bool {
	return l.core.Chat().IsProcessing()
}

func (l *ChatLogic) NewConversationID() string {
	return utils.NewConversationID()
}
