package scenes

import "github.com/pkg/errors"

// SceneCount is the number of states of the scene machine.
func (s *Store) SceneCount() int { return len(s.cfg.Scenes) }

// Scene returns the current scene index.
func (s *Store) Scene() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene
}

// SetScene moves to n clamped to [0, SceneCount-1]. It is a no-op until the dataset is loaded.
func (s *Store) SetScene(n int) {
	s.mu.Lock()
	if s.ds == nil {
		s.mu.Unlock()
		return
	}
	n = clampScene(n, len(s.cfg.Scenes))
	changed := n != s.scene
	s.scene = n
	s.mu.Unlock()
	if changed {
		s.emit(EventSceneChanged, "")
	}
}

// Next advances one scene, saturating at the last.
func (s *Store) Next() { s.SetScene(s.Scene() + 1) }

// Prev goes back one scene, saturating at 0.
func (s *Store) Prev() { s.SetScene(s.Scene() - 1) }

// JumpTo moves to scene n; unlike SetScene an out-of-range index is an error.
func (s *Store) JumpTo(n int) error {
	if n < 0 || n >= s.SceneCount() {
		return errors.Wrapf(ErrInvalidParameter, "scene %d out of [0,%d)", n, s.SceneCount())
	}
	if !s.Loaded() {
		return errors.Wrapf(ErrNotLoaded, "jump to scene %d", n)
	}
	s.SetScene(n)
	return nil
}

// JumpToID moves to the scene with the given configuration id.
func (s *Store) JumpToID(id string) error {
	for i, sc := range s.cfg.Scenes {
		if sc.ID == id {
			return s.JumpTo(i)
		}
	}
	return errors.Wrapf(ErrInvalidParameter, "unknown scene %q", id)
}

func clampScene(n, count int) int {
	if n < 0 {
		return 0
	}
	if n > count-1 {
		return count - 1
	}
	return n
}
