package errs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := E(Conflict, "listings.update", "version mismatch")
	wrapped := fmt.Errorf("approve: %w", Wrap(base, "moderation.approve"))

	assert.True(t, Is(wrapped, Conflict))
	assert.False(t, Is(wrapped, NotFound))
	assert.Equal(t, "version mismatch", Message(wrapped))
}

func TestUnclassifiedErrorIsInternal(t *testing.T) {
	err := Wrap(fmt.Errorf("connection reset"), "listings.find")

	assert.Equal(t, Internal, KindOf(err))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSentinels(t *testing.T) {
	assert.True(t, Is(Wrap(ErrNotFound, "photos.find"), NotFound))
	assert.True(t, Is(ErrConflict, Conflict))
	assert.False(t, Is(nil, NotFound))
}
