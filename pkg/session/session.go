// Package session holds the single in-memory form state and keeps the
// rendered prompts in step with it.
package session

import (
	"errors"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"

	"veoprompt/pkg/prompt"
	"veoprompt/pkg/schema"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNoCharacters = errors.New("add a character before adding dialogue")
	ErrAnalyzing    = errors.New("character is being analyzed")
)

// Releaser frees preview references owned by characters.
type Releaser interface {
	Release(id string)
}

type nopReleaser struct{}

func (nopReleaser) Release(string) {}

type Option func(*Session)

func WithPreviews(r Releaser) Option {
	return func(s *Session) { s.previews = r }
}

// WithDeleteHook registers a callback run after a character is deleted,
// outside the session lock.
func WithDeleteHook(fn func(characterID string)) Option {
	return func(s *Session) { s.onDelete = fn }
}

func WithIDs(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

// WithoutDefaultCharacter starts the session with an empty character list.
func WithoutDefaultCharacter() Option {
	return func(s *Session) { s.seed = false }
}

type Session struct {
	mu         sync.RWMutex
	characters []schema.Character
	dialogues  []schema.Dialogue
	env        schema.Environment

	output   prompt.Output
	previous prompt.Output
	version  uint64

	previews Releaser
	onDelete func(string)
	newID    func() string
	seed     bool

	subs subscribers
}

// Snapshot is a copy of the state at one version.
type Snapshot struct {
	Version     uint64             `json:"version"`
	Characters  []schema.Character `json:"characters"`
	Dialogues   []schema.Dialogue  `json:"dialogues"`
	Environment schema.Environment `json:"environment"`
	Prompts     prompt.Output      `json:"prompts"`
}

func New(opts ...Option) *Session {
	s := &Session{
		characters: []schema.Character{},
		dialogues:  []schema.Dialogue{},
		env:        schema.DefaultEnvironment(),
		previews:   nopReleaser{},
		newID:      func() string { return ksuid.New().String() },
		seed:       true,
		subs:       newSubscribers(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed {
		s.characters = append(s.characters, schema.NewCharacter(s.newID()))
	}
	s.output = prompt.Project(s.characters, s.dialogues, s.env)
	s.previous = s.output
	return s
}

// commit re-renders the prompts and notifies subscribers. Callers hold mu.
func (s *Session) commit() {
	s.previous = s.output
	s.output = prompt.Project(s.characters, s.dialogues, s.env)
	s.version++
	out := s.output
	s.subs.publish(Event{Type: EventPrompts, Version: s.version, Prompts: &out})
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Version:     s.version,
		Characters:  slices.Clone(s.characters),
		Dialogues:   slices.Clone(s.dialogues),
		Environment: s.env,
		Prompts:     s.output,
	}
}

func (s *Session) Prompts() prompt.Output {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.output
}

// PromptPair returns the render before the latest mutation and the current
// one, read together.
func (s *Session) PromptPair() (previous, current prompt.Output) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previous, s.output
}

func (s *Session) indexCharacter(id string) int {
	return slices.IndexFunc(s.characters, func(c schema.Character) bool { return c.ID == id })
}

func (s *Session) indexDialogue(id string) int {
	return slices.IndexFunc(s.dialogues, func(d schema.Dialogue) bool { return d.ID == id })
}

func (s *Session) Character(id string) (schema.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexCharacter(id)
	if i < 0 {
		return schema.Character{}, ErrNotFound
	}
	return s.characters[i], nil
}

func (s *Session) AddCharacter() schema.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := schema.NewCharacter(s.newID())
	s.characters = append(s.characters, c)
	s.commit()
	log.Debug("character added", "id", c.ID, "count", len(s.characters))
	return c
}

// UpdateCharacter applies a partial edit. Edits are refused while the
// character is being analyzed.
func (s *Session) UpdateCharacter(id string, patch schema.CharacterPatch) (schema.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexCharacter(id)
	if i < 0 {
		return schema.Character{}, ErrNotFound
	}
	if s.characters[i].Analyzing {
		return s.characters[i], ErrAnalyzing
	}
	patch.Apply(&s.characters[i])
	s.commit()
	return s.characters[i], nil
}

// DeleteCharacter removes the character, every dialogue that references it
// and its preview. It returns the number of dialogues removed.
func (s *Session) DeleteCharacter(id string) (int, error) {
	s.mu.Lock()
	i := s.indexCharacter(id)
	if i < 0 {
		s.mu.Unlock()
		return 0, ErrNotFound
	}
	removed := s.characters[i]
	s.characters = slices.Delete(s.characters, i, i+1)

	before := len(s.dialogues)
	s.dialogues = slices.DeleteFunc(s.dialogues, func(d schema.Dialogue) bool { return d.CharacterID == id })
	cascaded := before - len(s.dialogues)

	s.previews.Release(removed.PreviewID)
	s.commit()
	s.mu.Unlock()

	if s.onDelete != nil {
		s.onDelete(id)
	}
	log.Debug("character deleted", "id", id, "dialogues", cascaded)
	return cascaded, nil
}

// AddDialogue appends a line attributed to the first character.
func (s *Session) AddDialogue() (schema.Dialogue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.characters) == 0 {
		return schema.Dialogue{}, ErrNoCharacters
	}
	d := schema.Dialogue{ID: s.newID(), CharacterID: s.characters[0].ID}
	s.dialogues = append(s.dialogues, d)
	s.commit()
	return d, nil
}

func (s *Session) UpdateDialogue(id string, patch schema.DialoguePatch) (schema.Dialogue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexDialogue(id)
	if i < 0 {
		return schema.Dialogue{}, ErrNotFound
	}
	if patch.CharacterID != nil {
		if s.indexCharacter(*patch.CharacterID) < 0 {
			return s.dialogues[i], ErrNotFound
		}
		s.dialogues[i].CharacterID = *patch.CharacterID
	}
	if patch.Text != nil {
		s.dialogues[i].Text = *patch.Text
	}
	s.commit()
	return s.dialogues[i], nil
}

func (s *Session) DeleteDialogue(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexDialogue(id)
	if i < 0 {
		return ErrNotFound
	}
	s.dialogues = slices.Delete(s.dialogues, i, i+1)
	s.commit()
	return nil
}

func (s *Session) UpdateEnvironment(patch schema.EnvironmentPatch) schema.Environment {
	s.mu.Lock()
	defer s.mu.Unlock()
	patch.Apply(&s.env)
	s.commit()
	return s.env
}

// Close releases every preview still bound to a character.
func (s *Session) Close() {
	s.mu.Lock()
	for i := range s.characters {
		s.previews.Release(s.characters[i].PreviewID)
		s.characters[i].PreviewID = ""
	}
	s.mu.Unlock()
	s.subs.closeAll()
}
