package idiomclient

import (
	"context"
	"errors"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrUnknownComment is returned when replying to a comment that is not in the
// thread or has not been acknowledged by the server yet.
var ErrUnknownComment = errors.New("comment is not in the thread or not yet saved")

// ThreadAPI is the part of Client the thread controller needs.
type ThreadAPI interface {
	CreateComment(ctx context.Context, idiomID int, content string) (*Comment, error)
	CreateReply(ctx context.Context, commentID int, content string) (*Reply, error)
}

// ThreadReply is a reply as displayed. TempID is set while the server has not
// acknowledged it and ID is zero until then.
type ThreadReply struct {
	Reply
	TempID string
}

type ThreadComment struct {
	Comment
	TempID  string
	Replies []ThreadReply
}

func (c ThreadComment) Pending() bool { return c.TempID != "" }
func (r ThreadReply) Pending() bool   { return r.TempID != "" }

// ThreadController keeps an idiom's comment list with optimistic creation.
// Placeholders are correlated with their requests by TempID, never by position.
type ThreadController struct {
	api      ThreadAPI
	idiomID  int
	author   Author
	onChange func(error)

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	notifyMu sync.Mutex

	mu       sync.Mutex
	comments []ThreadComment
	closed   bool
}

// NewThreadController starts from the comments as listed by the server. author
// is shown on placeholders until the server copy replaces them.
func NewThreadController(api ThreadAPI, idiomID int, author Author, initial []Comment, onChange func(error)) *ThreadController {
	ctx, cancel := context.WithCancel(context.Background())
	t := &ThreadController{
		api:      api,
		idiomID:  idiomID,
		author:   author,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, c := range initial {
		t.comments = append(t.comments, fromServerComment(c))
	}
	return t
}

func fromServerComment(c Comment) ThreadComment {
	tc := ThreadComment{Comment: c}
	tc.Comment.Replies = nil
	for _, r := range c.Replies {
		tc.Replies = append(tc.Replies, ThreadReply{Reply: r})
	}
	return tc
}

// Comments returns a copy of the displayed thread, newest comment first.
func (t *ThreadController) Comments() []ThreadComment {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ThreadComment, len(t.comments))
	for i, c := range t.comments {
		out[i] = c
		out[i].Replies = append([]ThreadReply(nil), c.Replies...)
	}
	return out
}

// AddComment shows a placeholder at the top of the thread and creates the comment.
// It returns the placeholder's TempID.
func (t *ThreadController) AddComment(content string) (string, error) {
	tempID, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return "", context.Canceled
	}
	placeholder := ThreadComment{
		Comment: Comment{
			Content:   content,
			AuthorID:  t.author.ID,
			Author:    t.author,
			IdiomID:   t.idiomID,
			CreatedAt: time.Now().UTC(),
		},
		TempID: tempID,
	}
	t.comments = append([]ThreadComment{placeholder}, t.comments...)
	t.mu.Unlock()
	t.notify(nil)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		created, err := t.api.CreateComment(t.ctx, t.idiomID, content)
		t.settleComment(tempID, created, err)
	}()
	return tempID, nil
}

func (t *ThreadController) settleComment(tempID string, created *Comment, err error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	for i := range t.comments {
		if t.comments[i].TempID != tempID {
			continue
		}
		if err != nil {
			t.comments = append(t.comments[:i], t.comments[i+1:]...)
		} else {
			replies := t.comments[i].Replies
			t.comments[i] = fromServerComment(*created)
			t.comments[i].Replies = replies
		}
		break
	}
	t.mu.Unlock()
	t.notify(err)
}

// AddReply appends a placeholder reply to a saved comment and creates it.
func (t *ThreadController) AddReply(commentID int, content string) (string, error) {
	tempID, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return "", context.Canceled
	}
	idx := t.commentIndexLocked(commentID)
	if idx < 0 {
		t.mu.Unlock()
		return "", ErrUnknownComment
	}
	t.comments[idx].Replies = append(t.comments[idx].Replies, ThreadReply{
		Reply: Reply{
			Content:   content,
			AuthorID:  t.author.ID,
			Author:    t.author,
			CommentID: commentID,
			CreatedAt: time.Now().UTC(),
		},
		TempID: tempID,
	})
	t.mu.Unlock()
	t.notify(nil)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		created, err := t.api.CreateReply(t.ctx, commentID, content)
		t.settleReply(commentID, tempID, created, err)
	}()
	return tempID, nil
}

func (t *ThreadController) settleReply(commentID int, tempID string, created *Reply, err error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	if idx := t.commentIndexLocked(commentID); idx >= 0 {
		replies := t.comments[idx].Replies
		for j := range replies {
			if replies[j].TempID != tempID {
				continue
			}
			if err != nil {
				t.comments[idx].Replies = append(replies[:j], replies[j+1:]...)
			} else {
				replies[j] = ThreadReply{Reply: *created}
			}
			break
		}
	}
	t.mu.Unlock()
	t.notify(err)
}

func (t *ThreadController) commentIndexLocked(commentID int) int {
	if commentID <= 0 {
		return -1
	}
	for i, c := range t.comments {
		if c.ID == commentID && !c.Pending() {
			return i
		}
	}
	return -1
}

// notify runs onChange; callbacks never overlap.
func (t *ThreadController) notify(err error) {
	if t.onChange == nil {
		return
	}
	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()
	t.onChange(err)
}

// Close cancels in-flight requests and ignores their results.
func (t *ThreadController) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.cancel()
}

func (t *ThreadController) Wait() {
	t.wg.Wait()
}
