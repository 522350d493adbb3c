package mapper

import (
	"fmt"
	"strings"
	"time"

	"worksearch.app/aggregator/internal/model"
)

const (
	threadContentType = "Thread"

	headerThreadStart     = "--- THREAD START ---"
	headerRelatedReply    = "--- RELATED REPLY ---"
	headerCompletionReply = "--- RELATED REPLY (COMPLETION) ---"

	replyTimeLayout = "15:04:05"
)

type ThreadMapper struct {
	loc *time.Location
}

func NewThreadMapper(loc *time.Location) *ThreadMapper {
	return &ThreadMapper{loc: loc}
}

// Map assembles a messaging record from a full thread.
//
// The root is always included. A reply is appended when it mentions term or
// carries a completion marker; a marker anywhere in the thread, root
// included, makes the record completed. ok is false when no reply was
// appended, since a lone root is not evidence of work on term.
func (m *ThreadMapper) Map(thread model.Thread, term string) (model.Record, bool) {
	root, found := thread.Root()
	if !found {
		return model.Record{}, false
	}

	rootAt := model.NormalizeTime(root.CreatedAt, m.loc)
	sections := []string{
		m.section(headerThreadStart, rootAt.Format(model.DateLayout), root),
	}
	completed := ContainsCompletionMarker(root.Message)

	for _, reply := range thread.Replies() {
		replyAt := model.NormalizeTime(reply.CreatedAt, m.loc).Format(replyTimeLayout)

		// A reply can match both, in which case it appears under each header.
		if ContainsFold(reply.Message, term) {
			sections = append(sections, m.section(headerRelatedReply, replyAt, reply))
		}
		if ContainsCompletionMarker(reply.Message) {
			completed = true
			sections = append(sections, m.section(headerCompletionReply, replyAt, reply))
		}
	}

	if len(sections) < 2 {
		return model.Record{}, false
	}

	status := model.StatusOngoing
	if completed {
		status = model.StatusCompleted
	}

	return model.Record{
		Platform:    model.PlatformMessaging,
		Provider:    model.ProviderMattermost,
		ID:          root.ID,
		Title:       "Thread " + root.ID,
		Description: strings.Join(sections, "\n\n"),
		Author:      root.UserID,
		CreatedAt:   rootAt,
		ContentType: threadContentType,
		Messaging: &model.MessagingDetails{
			ChannelID: root.ChannelID,
			Status:    status,
		},
	}, true
}

func (m *ThreadMapper) section(header, at string, post model.Post) string {
	return fmt.Sprintf("%s\n[%s - User %s]:\n%s", header, at, post.UserID, post.Message)
}
