package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fundacion-portal-backend/internal/shared/forms"
)

func TestImageSlotClearReleasesExactlyOnce(t *testing.T) {
	var slot ImageSlot
	slot.SetFile(StagedFile{Key: "staging/s/slot_0", Name: "a.jpg"})

	// First clear hands out the staged key...
	assert.Equal(t, "staging/s/slot_0", slot.Clear())
	// ...and leaves the slot indistinguishable from never-selected.
	assert.Equal(t, EmptySlot(), slot)

	// A second clear has nothing left to release.
	assert.Equal(t, "", slot.Clear())
}

func TestImageSlotReplaceReleasesPrevious(t *testing.T) {
	var slot ImageSlot

	// Nothing staged yet: nothing to release.
	assert.Equal(t, "", slot.SetFile(StagedFile{Key: "k1", Name: "a.jpg"}))

	// Replacing a staged upload releases the displaced one.
	assert.Equal(t, "k1", slot.SetFile(StagedFile{Key: "k2", Name: "b.jpg"}))

	// Replacing a kept URL releases nothing; the URL is persisted elsewhere.
	slot = KeptSlot("https://cdn.example.org/a.jpg")
	assert.Equal(t, "", slot.SetFile(StagedFile{Key: "k3", Name: "c.jpg"}))
}

func TestImageSlotFormValue(t *testing.T) {
	var slot ImageSlot
	assert.Nil(t, slot.FormValue())

	slot = KeptSlot("https://cdn.example.org/a.jpg")
	assert.Equal(t, "https://cdn.example.org/a.jpg", slot.FormValue())

	slot.SetFile(StagedFile{Key: "k", Name: "a.jpg", Size: 9, ContentType: "image/jpeg"})
	assert.Equal(t, forms.File{Name: "a.jpg", Size: 9, ContentType: "image/jpeg"}, slot.FormValue())
}

func TestKeptSlotEmptyURLIsUnset(t *testing.T) {
	assert.Equal(t, EmptySlot(), KeptSlot(""))
	assert.False(t, KeptSlot("").IsSet())
	assert.True(t, KeptSlot("https://x").IsSet())
}
