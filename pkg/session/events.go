package session

import (
	"sync"

	"github.com/charmbracelet/log"

	"veoprompt/pkg/prompt"
	"veoprompt/pkg/schema"
)

const (
	EventPrompts = "prompts"
	EventNotice  = "notice"
)

type Event struct {
	Type        string         `json:"type"`
	Version     uint64         `json:"version"`
	Prompts     *prompt.Output `json:"prompts,omitempty"`
	CharacterID string         `json:"character_id,omitzero"`
	Notice      *schema.Notice `json:"notice,omitempty"`
}

type subscribers struct {
	mu   *sync.Mutex
	next int
	subs map[int]chan Event
}

func newSubscribers() subscribers {
	return subscribers{mu: new(sync.Mutex), subs: make(map[int]chan Event)}
}

// publish never blocks; a subscriber whose buffer is full misses the event.
func (s *subscribers) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			log.Warn("dropping event for slow subscriber", "subscriber", id, "type", ev.Type)
		}
	}
}

func (s *subscribers) add(buffer int) (int, chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Event, buffer)
	id := s.next
	s.next++
	s.subs[id] = ch
	return id, ch
}

func (s *subscribers) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *subscribers) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// Subscribe returns a channel receiving one event per committed mutation
// and a func that unsubscribes and closes the channel.
func (s *Session) Subscribe(buffer int) (<-chan Event, func()) {
	id, ch := s.subs.add(max(buffer, 1))
	var once sync.Once
	return ch, func() { once.Do(func() { s.subs.remove(id) }) }
}
