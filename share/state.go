package share

import (
	"sync"

	"github.com/imageshare/imageshare-go/tool"
	"github.com/imageshare/imageshare-go/types"
)

// NotifySink receives state-change notifications (the websocket hub in
// production, a capture func in tests).
type NotifySink func(n *types.Notification)

// State is the session context shared by all upload tasks: the banner, the
// gallery, the submit affordance and the pending selection. The banner and
// the affordance are deliberately last-writer-wins; concurrent tasks racing
// to update them is expected. Everything is guarded by one mutex, so a
// banner level and its message can never tear.
type State struct {
	mu            sync.Mutex
	banner        types.Banner
	cards         []types.Card
	submitEnabled bool
	selection     []types.SelectedFile
	previews      map[string]string // task id -> local source path, never removed
	sink          NotifySink
	Spinner       *Spinner
}

func NewState() *State {
	return &State{
		banner:        types.Banner{Level: types.BannerInfo, Message: ""},
		submitEnabled: false,
		previews:      make(map[string]string),
		Spinner:       NewSpinner(),
	}
}

// SetNotifySink wires the notification sink. Pass nil to silence.
func (s *State) SetNotifySink(sink NotifySink) {
	s.mu.Lock()
	s.sink = sink
	s.mu.Unlock()
}

func (s *State) notify(n *types.Notification) {
	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()
	if sink != nil {
		sink(n)
	}
}

// SetBanner writes level and message together.
func (s *State) SetBanner(level, message string) {
	s.mu.Lock()
	s.banner = types.Banner{Level: level, Message: message}
	s.mu.Unlock()
	tool.DefaultLogger.Debugf("Banner: [%s] %s", level, message)
	s.notify(&types.Notification{
		Type:    types.NotifyTypeBanner,
		Message: message,
		Data:    map[string]any{"level": level},
	})
}

func (s *State) Banner() types.Banner {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner
}

// AppendCard hands a card to the gallery. Append-only: cards are never
// removed once appended. Only tasks that completed successfully call this.
func (s *State) AppendCard(card types.Card) {
	s.mu.Lock()
	s.cards = append(s.cards, card)
	s.mu.Unlock()
	s.notify(&types.Notification{
		Type:    types.NotifyTypeCardAppended,
		Message: card.LinkURL,
		Data:    map[string]any{"id": card.ID, "fileName": card.FileName},
	})
}

func (s *State) Cards() []types.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Card returns a gallery card by id.
func (s *State) Card(id string) (types.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID == id {
			return c, true
		}
	}
	return types.Card{}, false
}

// MarkCopied resets every other card's copy button to idle, then records
// the clicked card's result. At most one card is ever non-idle.
func (s *State) MarkCopied(id string, ok bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for i := range s.cards {
		if s.cards[i].ID == id {
			found = true
			if ok {
				s.cards[i].CopyState = types.CopyCopied
			} else {
				s.cards[i].CopyState = types.CopyFailed
			}
		} else {
			s.cards[i].CopyState = types.CopyIdle
		}
	}
	return found
}

// SetSubmitEnabled flips the submit affordance. Disabled on dispatch,
// re-enabled only by a new selection, never by task completion.
func (s *State) SetSubmitEnabled(enabled bool) {
	s.mu.Lock()
	s.submitEnabled = enabled
	s.mu.Unlock()
	s.notify(&types.Notification{
		Type: types.NotifyTypeAffordance,
		Data: map[string]any{"enabled": enabled},
	})
}

func (s *State) SubmitEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitEnabled
}

// SetSelection stores the picker selection and enables the affordance when
// non-empty.
func (s *State) SetSelection(files []types.SelectedFile) {
	s.mu.Lock()
	s.selection = files
	s.mu.Unlock()
	if len(files) > 0 {
		s.SetSubmitEnabled(true)
	}
}

// TakeSelection returns the current selection and clears it, so a stale
// payload never leaks into the next drag or submit.
func (s *State) TakeSelection() []types.SelectedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	files := s.selection
	s.selection = nil
	return files
}

func (s *State) SelectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selection)
}

// RegisterPreview records a task's local preview source exactly once.
// Entries live for the process lifetime, like a page's object URLs.
func (s *State) RegisterPreview(taskId, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.previews[taskId]; exists {
		return
	}
	s.previews[taskId] = path
}

func (s *State) PreviewPath(taskId string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path, ok := s.previews[taskId]
	return path, ok
}

// Notify forwards a task lifecycle event to the sink.
func (s *State) Notify(n *types.Notification) {
	s.notify(n)
}
