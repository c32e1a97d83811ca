package state

import (
	"github.com/matheus3301/whatsterm/internal/media"
	"go.uber.org/zap"
)

// FileState returns the media state of a message. Unknown IDs are
// Unrequested.
func (s *State) FileState(id string) FileState {
	return s.files[id]
}

// SetFileState records a state reported by a worker and returns the
// previous one.
func (s *State) SetFileState(id string, st FileState) FileState {
	prev := s.files[id]
	s.files[id] = st
	return prev
}

// RequestDownload moves a file message to Downloading. It returns false
// when the message is unknown, has no file, or its file is already in
// flight or on disk.
func (s *State) RequestDownload(id string) bool {
	m, ok := s.messages[id]
	if !ok || m.File == nil || m.File.FileID == "" {
		return false
	}
	st := s.files[id]
	if st == Downloading || st.OnDisk() {
		return false
	}
	s.files[id] = Downloading
	return true
}

// RequestPreview moves a downloaded image to Loading. It returns false
// unless the message is an image in the Downloaded state.
func (s *State) RequestPreview(id string) bool {
	m, ok := s.messages[id]
	if !ok || m.File == nil || !m.File.Kind.IsImage() {
		return false
	}
	if s.files[id] != Downloaded {
		return false
	}
	s.files[id] = Loading
	return true
}

// Retry clears a failure so the next request is dispatched again.
func (s *State) Retry(id string) bool {
	switch s.files[id] {
	case DownloadFailed:
		s.files[id] = Unrequested
	case LoadFailed:
		s.files[id] = Downloaded
	default:
		return false
	}
	return true
}

// ApplyPreview stores a decoded image and marks the message Loaded. A nil
// bitmap marks it LoadFailed.
func (s *State) ApplyPreview(id, path string, b *media.Bitmap) {
	if b == nil {
		s.files[id] = LoadFailed
		return
	}
	s.images[path] = b
	s.files[id] = Loaded
}

// Image returns the cached bitmap for a media path.
func (s *State) Image(path string) (*media.Bitmap, bool) {
	b, ok := s.images[path]
	return b, ok
}

// ResetImages drops every cached bitmap, sending loaded images back to
// Downloaded so they are decoded again for the current protocol.
func (s *State) ResetImages() int {
	n := len(s.images)
	clear(s.images)
	for id, st := range s.files {
		if st == Loaded {
			s.files[id] = Downloaded
		}
	}
	s.logger.Debug("image cache cleared", zap.Int("images", n))
	return n
}
