package idiomclient

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// FavouriteAPI is the part of Client the favourites controller needs.
type FavouriteAPI interface {
	AddFavourite(ctx context.Context, idiomID int) error
	RemoveFavourite(ctx context.Context, idiomID int) error
}

// FavouriteController tracks which idioms the user has marked as favourite and
// flips them optimistically. Requests for one idiom are sent one at a time in
// the order they were made; different idioms proceed independently.
type FavouriteController struct {
	api      FavouriteAPI
	onChange func(idiomID int, favourite bool, err error)

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	notifyMu sync.Mutex

	mu      sync.Mutex
	server  map[int]bool
	queue   map[int][]bool
	sending map[int]bool
	closed  bool
}

func NewFavouriteController(api FavouriteAPI, initial []int, onChange func(idiomID int, favourite bool, err error)) *FavouriteController {
	ctx, cancel := context.WithCancel(context.Background())
	f := &FavouriteController{
		api:      api,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
		server:   make(map[int]bool, len(initial)),
		queue:    make(map[int][]bool),
		sending:  make(map[int]bool),
	}
	for _, id := range initial {
		f.server[id] = true
	}
	return f
}

// shownLocked is the last confirmed membership with queued requests applied.
func (f *FavouriteController) shownLocked(idiomID int) bool {
	if q := f.queue[idiomID]; len(q) > 0 {
		return q[len(q)-1]
	}
	return f.server[idiomID]
}

func (f *FavouriteController) IsFavourite(idiomID int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shownLocked(idiomID)
}

// Pending reports whether a request for idiomID is queued or in flight.
func (f *FavouriteController) Pending(idiomID int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue[idiomID]) > 0
}

// Toggle flips the idiom's membership at once and queues the matching request.
// It returns the new displayed membership.
func (f *FavouriteController) Toggle(idiomID int) bool {
	f.mu.Lock()
	if f.closed {
		defer f.mu.Unlock()
		return f.shownLocked(idiomID)
	}
	next := !f.shownLocked(idiomID)
	f.queue[idiomID] = append(f.queue[idiomID], next)
	if !f.sending[idiomID] {
		f.sending[idiomID] = true
		f.wg.Add(1)
		go f.drain(idiomID)
	}
	f.mu.Unlock()

	f.notify(idiomID, nil)
	return next
}

func (f *FavouriteController) drain(idiomID int) {
	defer f.wg.Done()
	for {
		f.mu.Lock()
		if f.closed || len(f.queue[idiomID]) == 0 {
			delete(f.sending, idiomID)
			f.mu.Unlock()
			return
		}
		want := f.queue[idiomID][0]
		f.mu.Unlock()

		err := f.request(idiomID, want)

		f.mu.Lock()
		if f.closed {
			delete(f.sending, idiomID)
			f.mu.Unlock()
			return
		}
		if rest := f.queue[idiomID][1:]; len(rest) > 0 {
			f.queue[idiomID] = rest
		} else {
			delete(f.queue, idiomID)
		}
		if err == nil {
			f.server[idiomID] = want
		}
		f.mu.Unlock()

		// A failed request only loses its own flip; queued ones still show.
		f.notify(idiomID, err)
	}
}

func (f *FavouriteController) request(idiomID int, want bool) error {
	if !want {
		return f.api.RemoveFavourite(f.ctx, idiomID)
	}
	err := f.api.AddFavourite(f.ctx, idiomID)
	// Already a favourite on the server is the state we wanted.
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		return nil
	}
	return err
}

// notify reports the idiom's current membership. Callbacks are serialized.
func (f *FavouriteController) notify(idiomID int, err error) {
	if f.onChange == nil {
		return
	}
	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()

	f.mu.Lock()
	closed, shown := f.closed, f.shownLocked(idiomID)
	f.mu.Unlock()
	if closed {
		return
	}
	f.onChange(idiomID, shown, err)
}

func (f *FavouriteController) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cancel()
}

func (f *FavouriteController) Wait() {
	f.wg.Wait()
}
