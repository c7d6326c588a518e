package minio_storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

func TestObjectKey(t *testing.T) {
	key := objectKey("avatars", "Me.PNG")
	assert.True(t, strings.HasPrefix(key, "avatars/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	assert.True(t, strings.HasSuffix(objectKey("posts", "noext"), ".bin"))
	assert.NotEqual(t, objectKey("posts", "a.jpg"), objectKey("posts", "a.jpg"))
}

func TestStaticValuesBypassStorage(t *testing.T) {
	s := &MediaStorage{}

	u, err := s.URL(context.Background(), models.DefaultAvatar)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAvatar, u)

	u, err = s.URL(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, u)

	assert.NoError(t, s.Delete(context.Background(), models.DefaultCommunityIcon))
}
