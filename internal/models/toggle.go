package models

type ToggleAction string

const (
	ToggleAdded    ToggleAction = "added"
	ToggleRemoved  ToggleAction = "removed"
	ToggleSwitched ToggleAction = "switched"
)

// Toggle resolves the one-per-user choice a caller holds after requesting `requested`
// on top of `current` (nil when the caller holds nothing):
//   - nothing held: requested is added
//   - same choice held: it is removed
//   - the other choice held: it is switched to requested
func Toggle[T comparable](current *T, requested T) (*T, ToggleAction) {
	if current == nil {
		next := requested
		return &next, ToggleAdded
	}
	if *current == requested {
		return nil, ToggleRemoved
	}
	next := requested
	return &next, ToggleSwitched
}
