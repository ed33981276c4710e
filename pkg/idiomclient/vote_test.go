package idiomclient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type sendResult struct {
	counts VoteCounts
	err    error
}

type call struct {
	choice string
	reply  chan sendResult
}

// gatedSender holds every request until the test answers it.
type gatedSender struct {
	calls chan *call
}

func newGatedSender() *gatedSender {
	return &gatedSender{calls: make(chan *call, 16)}
}

func (g *gatedSender) send(ctx context.Context, choice string) (VoteCounts, error) {
	c := &call{choice: choice, reply: make(chan sendResult, 1)}
	g.calls <- c
	select {
	case r := <-c.reply:
		return r.counts, r.err
	case <-ctx.Done():
		return VoteCounts{}, ctx.Err()
	}
}

func (g *gatedSender) next(t *testing.T) *call {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no request was sent")
		return nil
	}
}

type changeLog struct {
	mu     sync.Mutex
	counts []VoteCounts
	errs   []error
}

func (l *changeLog) record(c VoteCounts, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts = append(l.counts, c)
	l.errs = append(l.errs, err)
}

func (l *changeLog) lastErr() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.errs) == 0 {
		return nil
	}
	return l.errs[len(l.errs)-1]
}

func (l *changeLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counts)
}

func TestVoteController_SuccessReconcilesWithServer(t *testing.T) {
	g := newGatedSender()
	log := &changeLog{}
	v := NewVoteController(VoteCounts{Up: 4}, "up", "down", g.send, log.record)

	shown := v.Vote("up")
	assert.Equal(t, VoteCounts{Up: 5, Mine: "up"}, shown)
	assert.Equal(t, Pending, v.State())

	c := g.next(t)
	assert.Equal(t, "up", c.choice)
	// Another user voted meanwhile; the server's numbers win.
	c.reply <- sendResult{counts: VoteCounts{Up: 6, Mine: "up"}}
	v.Wait()

	assert.Equal(t, VoteCounts{Up: 6, Mine: "up"}, v.Counts())
	assert.Equal(t, Stable, v.State())
	assert.NoError(t, log.lastErr())
}

func TestVoteController_FailureRestoresExactly(t *testing.T) {
	g := newGatedSender()
	log := &changeLog{}
	initial := VoteCounts{Up: 3, Down: 1, Mine: "down"}
	v := NewVoteController(initial, "up", "down", g.send, log.record)

	assert.Equal(t, VoteCounts{Up: 4, Down: 0, Mine: "up"}, v.Vote("up"))

	boom := errors.New("network down")
	g.next(t).reply <- sendResult{err: boom}
	v.Wait()

	assert.Equal(t, initial, v.Counts())
	assert.Equal(t, Stable, v.State())
	assert.ErrorIs(t, log.lastErr(), boom)
}

func TestVoteController_ToggleOff(t *testing.T) {
	g := newGatedSender()
	v := NewVoteController(VoteCounts{Up: 1, Mine: "up"}, "up", "down", g.send, nil)

	assert.Equal(t, VoteCounts{}, v.Vote("up"))
	g.next(t).reply <- sendResult{counts: VoteCounts{}}
	v.Wait()
	assert.Equal(t, VoteCounts{}, v.Counts())
}

// toggleServer applies votes with the server's toggle rule.
type toggleServer struct {
	mu    sync.Mutex
	state VoteCounts
}

func (s *toggleServer) apply(choice string) VoteCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state.Mine {
	case "up":
		s.state.Up--
	case "down":
		s.state.Down--
	}
	if s.state.Mine == choice {
		s.state.Mine = ""
		return s.state
	}
	s.state.Mine = choice
	if choice == "up" {
		s.state.Up++
	} else {
		s.state.Down++
	}
	return s.state
}

func (s *toggleServer) current() VoteCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func assertNoCall(t *testing.T, g *gatedSender) {
	t.Helper()
	select {
	case c := <-g.calls:
		t.Fatalf("unexpected request %q while another is in flight", c.choice)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestVoteController_SendsOneRequestAtATime(t *testing.T) {
	g := newGatedSender()
	srv := &toggleServer{}
	v := NewVoteController(VoteCounts{}, "up", "down", g.send, nil)

	v.Vote("up")
	first := g.next(t)
	assert.Equal(t, VoteCounts{Down: 1, Mine: "down"}, v.Vote("down"))
	assertNoCall(t, g)

	first.reply <- sendResult{counts: srv.apply(first.choice)}
	second := g.next(t)
	assert.Equal(t, "down", second.choice)
	assert.Equal(t, VoteCounts{Down: 1, Mine: "down"}, v.Counts())

	second.reply <- sendResult{counts: srv.apply(second.choice)}
	v.Wait()

	assert.Equal(t, srv.current(), v.Counts())
	assert.Equal(t, VoteCounts{Down: 1, Mine: "down"}, v.Counts())
	assert.Equal(t, Stable, v.State())
}

func TestVoteController_ConvergesWithServer(t *testing.T) {
	srv := &toggleServer{state: VoteCounts{Up: 3, Down: 2}}
	send := func(ctx context.Context, choice string) (VoteCounts, error) {
		time.Sleep(time.Millisecond)
		return srv.apply(choice), nil
	}
	v := NewVoteController(srv.current(), "up", "down", send, nil)

	var voters sync.WaitGroup
	for i := 0; i < 20; i++ {
		choice := "up"
		if i%3 == 0 {
			choice = "down"
		}
		voters.Add(1)
		go func() {
			defer voters.Done()
			v.Vote(choice)
		}()
	}
	voters.Wait()
	v.Wait()

	assert.Equal(t, srv.current(), v.Counts())
	assert.Equal(t, Stable, v.State())
}

func TestVoteController_FailureKeepsQueuedIntent(t *testing.T) {
	g := newGatedSender()
	v := NewVoteController(VoteCounts{Up: 2}, "like", "dislike", g.send, nil)

	assert.Equal(t, VoteCounts{Up: 3, Mine: "like"}, v.Vote("like"))
	first := g.next(t)
	assert.Equal(t, VoteCounts{Up: 2, Down: 1, Mine: "dislike"}, v.Vote("dislike"))

	// Only the failed request's effect is undone: the dislike still shows.
	first.reply <- sendResult{err: errors.New("timeout")}
	second := g.next(t)
	assert.Equal(t, "dislike", second.choice)
	assert.Equal(t, VoteCounts{Up: 2, Down: 1, Mine: "dislike"}, v.Counts())
	assert.Equal(t, Pending, v.State())

	second.reply <- sendResult{counts: VoteCounts{Up: 2, Down: 1, Mine: "dislike"}}
	v.Wait()
	assert.Equal(t, VoteCounts{Up: 2, Down: 1, Mine: "dislike"}, v.Counts())
	assert.Equal(t, Stable, v.State())
}

func TestVoteController_CloseIgnoresLateResponses(t *testing.T) {
	g := newGatedSender()
	log := &changeLog{}
	v := NewVoteController(VoteCounts{}, "up", "down", g.send, log.record)

	v.Vote("up")
	c := g.next(t)
	before := log.len()
	v.Close()
	c.reply <- sendResult{counts: VoteCounts{Up: 10, Mine: "up"}}
	v.Wait()

	assert.Equal(t, before, log.len())
	assert.Equal(t, VoteCounts{Up: 1, Mine: "up"}, v.Counts())

	// Actions after Close are not sent.
	v.Vote("down")
	select {
	case <-g.calls:
		t.Fatal("request sent after Close")
	default:
	}
}

func TestVoteController_IgnoresUnknownChoice(t *testing.T) {
	g := newGatedSender()
	v := NewVoteController(VoteCounts{Up: 1}, "up", "down", g.send, nil)

	assert.Equal(t, VoteCounts{Up: 1}, v.Vote("like"))
	assert.Equal(t, Stable, v.State())
}
