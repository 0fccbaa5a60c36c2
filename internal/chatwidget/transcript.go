package chatwidget

import (
	"sync"

	"github.com/google/uuid"
)

// Sender tags who wrote a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Entry is one item of the visible transcript. Typing entries are
// placeholders shown while a reply is pending.
type Entry struct {
	ID     string `json:"id"`
	Sender Sender `json:"sender"`
	Text   string `json:"text,omitempty"`
	Typing bool   `json:"typing,omitempty"`
}

// EventKind says how the transcript changed.
type EventKind string

const (
	EventAdded   EventKind = "added"
	EventRemoved EventKind = "removed"
)

// Event is delivered to listeners after every change. Front ends use it
// to append or remove rows and scroll to the bottom.
type Event struct {
	Kind  EventKind
	Entry Entry
}

// Transcript is the ordered list of chat entries of one widget.
type Transcript struct {
	mu        sync.Mutex
	entries   []Entry
	listeners []func(Event)
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Subscribe registers fn to receive every subsequent event.
func (t *Transcript) Subscribe(fn func(Event)) {
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}

// AddMessage appends a message and returns the new entry.
func (t *Transcript) AddMessage(sender Sender, text string) Entry {
	return t.add(Entry{ID: uuid.NewString(), Sender: sender, Text: text})
}

// AddTypingIndicator appends a bot typing placeholder.
func (t *Transcript) AddTypingIndicator() Entry {
	return t.add(Entry{ID: uuid.NewString(), Sender: SenderBot, Typing: true})
}

// Remove deletes the entry with the given ID. It reports false when the
// entry was already gone.
func (t *Transcript) Remove(id string) bool {
	t.mu.Lock()
	idx := -1
	for i, e := range t.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return false
	}
	removed := t.entries[idx]
	t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
	listeners := t.listeners
	t.mu.Unlock()

	notify(listeners, Event{Kind: EventRemoved, Entry: removed})
	return true
}

// Entries returns a copy of the transcript.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Last returns the newest entry.
func (t *Transcript) Last() (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

func (t *Transcript) add(e Entry) Entry {
	t.mu.Lock()
	t.entries = append(t.entries, e)
	listeners := t.listeners
	t.mu.Unlock()

	notify(listeners, Event{Kind: EventAdded, Entry: e})
	return e
}

func notify(listeners []func(Event), ev Event) {
	for _, fn := range listeners {
		fn(ev)
	}
}
