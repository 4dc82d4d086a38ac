package payload

import "fundacion-portal-backend/internal/shared/forms"

// SlotState tags the three states an image slot can be in.
type SlotState string

const (
	// SlotUnset means the slot is empty: nothing uploaded, nothing kept.
	SlotUnset SlotState = "unset"
	// SlotKept holds the URL of an already-persisted image (edit flow).
	SlotKept SlotState = "kept"
	// SlotReplaced holds a freshly staged upload not yet promoted.
	SlotReplaced SlotState = "replaced"
)

// StagedFile describes an upload parked in the staging area of object
// storage until the wizard submits.
type StagedFile struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// ImageSlot is the tagged union Kept(url) | Replaced(file) | Unset.
// Mutating methods return the staging key whose backing object must be
// released; a slot forgets the key the moment it hands it out, so each
// staged object is released exactly once.
type ImageSlot struct {
	State SlotState   `json:"state"`
	URL   string      `json:"url,omitempty"`
	File  *StagedFile `json:"file,omitempty"`
}

// EmptySlot returns an Unset slot.
func EmptySlot() ImageSlot {
	return ImageSlot{State: SlotUnset}
}

// KeptSlot returns a slot holding an existing persisted URL.
func KeptSlot(url string) ImageSlot {
	if url == "" {
		return EmptySlot()
	}
	return ImageSlot{State: SlotKept, URL: url}
}

// SetFile replaces the slot content with a new staged upload and returns the
// staging key of the upload it displaced, if any.
func (s *ImageSlot) SetFile(f StagedFile) (releasedKey string) {
	if s.State == SlotReplaced && s.File != nil {
		releasedKey = s.File.Key
	}
	s.State = SlotReplaced
	s.URL = ""
	s.File = &f
	return releasedKey
}

// Clear empties the slot and returns the staged key to release, if any.
// After Clear the slot is indistinguishable from never-selected.
func (s *ImageSlot) Clear() (releasedKey string) {
	if s.State == SlotReplaced && s.File != nil {
		releasedKey = s.File.Key
	}
	*s = EmptySlot()
	return releasedKey
}

// IsSet reports whether the slot resolves to anything.
func (s ImageSlot) IsSet() bool {
	return s.State != SlotUnset
}

// FormValue is what the validation engine sees for this slot: a forms.File
// for a staged upload, the URL string for a kept image, nil when unset.
func (s ImageSlot) FormValue() interface{} {
	switch s.State {
	case SlotReplaced:
		return forms.File{Name: s.File.Name, Size: s.File.Size, ContentType: s.File.ContentType}
	case SlotKept:
		return s.URL
	default:
		return nil
	}
}
