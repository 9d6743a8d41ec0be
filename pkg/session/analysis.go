package session

import (
	"veoprompt/pkg/schema"
)

// BeginAnalysis moves the character into the analyzing state and binds the
// preview of the new upload, releasing the one it replaces. Field values are
// left untouched; only the previous notice is cleared. If the character is
// missing or already analyzing the new preview is released.
func (s *Session) BeginAnalysis(id, previewID string) (schema.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexCharacter(id)
	if i < 0 {
		s.previews.Release(previewID)
		return schema.Character{}, ErrNotFound
	}
	c := &s.characters[i]
	if c.Analyzing {
		if previewID != c.PreviewID {
			s.previews.Release(previewID)
		}
		return *c, ErrAnalyzing
	}
	if previewID != "" && previewID != c.PreviewID {
		s.previews.Release(c.PreviewID)
		c.PreviewID = previewID
	}
	c.Analyzing = true
	c.AnalysisError = nil
	s.commit()
	return *c, nil
}

// CompleteAnalysis writes all six analyzed fields and clears the analyzing
// flag as one update. ErrNotFound means the character was deleted while
// the analysis ran and the result is to be discarded.
func (s *Session) CompleteAnalysis(id string, u schema.CharacterUpdate) (schema.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexCharacter(id)
	if i < 0 {
		return schema.Character{}, ErrNotFound
	}
	u.Apply(&s.characters[i])
	s.characters[i].Analyzing = false
	s.characters[i].AnalysisError = nil
	s.commit()
	return s.characters[i], nil
}

// FailAnalysis clears the analyzing flag and records the notice without
// touching any other field.
func (s *Session) FailAnalysis(id string, notice *schema.Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexCharacter(id)
	if i < 0 {
		return ErrNotFound
	}
	s.characters[i].Analyzing = false
	s.characters[i].AnalysisError = notice
	s.commit()
	if notice != nil {
		s.subs.publish(Event{Type: EventNotice, Version: s.version, CharacterID: id, Notice: notice})
	}
	return nil
}
