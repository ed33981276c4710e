package idiomclient

import (
	"context"
	"sync"
)

// State is the lifecycle of an optimistic controller.
type State int

const (
	Stable State = iota
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "stable"
}

// SendFunc submits one vote choice and returns the server's canonical counts.
type SendFunc func(ctx context.Context, choice string) (VoteCounts, error)

// ChangeFunc observes every displayed change. err is set when a request failed
// and its speculative effect was rolled back.
type ChangeFunc func(counts VoteCounts, err error)

// VoteController keeps a displayed vote state for one entity. Every action is
// applied speculatively at once, but requests for the entity go out one at a
// time: the next queued choice is sent only after the previous one settled.
// Votes toggle, so the server must apply them in the order they were made.
//
// The displayed state is always the last server state with every queued choice
// replayed on top. A failed request is dropped from the queue, so only its own
// effect is undone.
type VoteController struct {
	positive string
	negative string
	send     SendFunc
	onChange ChangeFunc

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	notifyMu sync.Mutex

	mu      sync.Mutex
	base    VoteCounts
	queue   []string
	sending bool
	closed  bool
}

// NewVoteController starts from the counts the page was rendered with. positive
// and negative name the two choices, "up"/"down" for idioms and "like"/"dislike"
// for comments and replies.
func NewVoteController(initial VoteCounts, positive, negative string, send SendFunc, onChange ChangeFunc) *VoteController {
	ctx, cancel := context.WithCancel(context.Background())
	return &VoteController{
		positive: positive,
		negative: negative,
		send:     send,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
		base:     initial,
	}
}

// NewIdiomVoteController binds a controller to POST /idiom/:id/vote.
func NewIdiomVoteController(c *Client, idiomID int, initial VoteCounts, onChange ChangeFunc) *VoteController {
	return NewVoteController(initial, "up", "down", func(ctx context.Context, choice string) (VoteCounts, error) {
		return c.VoteIdiom(ctx, idiomID, choice)
	}, onChange)
}

// NewCommentVoteController binds a controller to POST /comment/:id/vote.
func NewCommentVoteController(c *Client, commentID int, initial VoteCounts, onChange ChangeFunc) *VoteController {
	return NewVoteController(initial, "like", "dislike", func(ctx context.Context, choice string) (VoteCounts, error) {
		return c.VoteComment(ctx, commentID, choice)
	}, onChange)
}

// NewReplyVoteController binds a controller to POST /reply/:id/vote.
func NewReplyVoteController(c *Client, replyID int, initial VoteCounts, onChange ChangeFunc) *VoteController {
	return NewVoteController(initial, "like", "dislike", func(ctx context.Context, choice string) (VoteCounts, error) {
		return c.VoteReply(ctx, replyID, choice)
	}, onChange)
}

// applyChoice is the server's toggle rule: repeating the current choice removes
// it, choosing the other one switches.
func (v *VoteController) applyChoice(s VoteCounts, choice string) VoteCounts {
	adjust := func(which string, by int64) {
		switch which {
		case v.positive:
			s.Up += by
		case v.negative:
			s.Down += by
		}
	}
	if s.Mine == choice {
		adjust(choice, -1)
		s.Mine = ""
		return s
	}
	adjust(s.Mine, -1)
	adjust(choice, 1)
	s.Mine = choice
	return s
}

func (v *VoteController) displayLocked() VoteCounts {
	s := v.base
	for _, choice := range v.queue {
		s = v.applyChoice(s, choice)
	}
	if s.Up < 0 {
		s.Up = 0
	}
	if s.Down < 0 {
		s.Down = 0
	}
	return s
}

// Counts is the currently displayed state.
func (v *VoteController) Counts() VoteCounts {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.displayLocked()
}

func (v *VoteController) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.queue) > 0 {
		return Pending
	}
	return Stable
}

// Vote applies choice speculatively, queues it for sending and returns the
// displayed state. Choices other than the controller's two are ignored.
func (v *VoteController) Vote(choice string) VoteCounts {
	v.mu.Lock()
	if v.closed || (choice != v.positive && choice != v.negative) {
		defer v.mu.Unlock()
		return v.displayLocked()
	}
	v.queue = append(v.queue, choice)
	shown := v.displayLocked()
	if !v.sending {
		v.sending = true
		v.wg.Add(1)
		go v.drain()
	}
	v.mu.Unlock()

	v.notify(nil)
	return shown
}

// drain sends queued choices in order until the queue is empty.
func (v *VoteController) drain() {
	defer v.wg.Done()
	for {
		v.mu.Lock()
		if v.closed || len(v.queue) == 0 {
			v.sending = false
			v.mu.Unlock()
			return
		}
		choice := v.queue[0]
		v.mu.Unlock()

		counts, err := v.send(v.ctx, choice)

		v.mu.Lock()
		if v.closed {
			v.sending = false
			v.mu.Unlock()
			return
		}
		v.queue = v.queue[1:]
		if err == nil {
			v.base = counts
		}
		v.mu.Unlock()

		v.notify(err)
	}
}

// notify reports the current display. Callbacks are serialized and always see
// the latest state, so they never observe changes out of order.
func (v *VoteController) notify(err error) {
	if v.onChange == nil {
		return
	}
	v.notifyMu.Lock()
	defer v.notifyMu.Unlock()

	v.mu.Lock()
	closed, counts := v.closed, v.displayLocked()
	v.mu.Unlock()
	if closed {
		return
	}
	v.onChange(counts, err)
}

// Close cancels the in-flight request and stops sending queued choices.
// Responses that arrive afterwards are ignored.
func (v *VoteController) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	v.cancel()
}

// Wait blocks until every queued choice has been sent and settled.
func (v *VoteController) Wait() {
	v.wg.Wait()
}
