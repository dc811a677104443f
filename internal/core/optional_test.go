package core

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_UnmarshalJSON(t *testing.T) {
	var p struct {
		Description Optional[string]    `json:"description"`
		CategoryID  Optional[uuid.UUID] `json:"category_id"`
	}

	t.Run("absent", func(t *testing.T) {
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
		assert.False(t, p.Description.Set)
		assert.Nil(t, p.Description.Ptr())
	})

	t.Run("explicit null", func(t *testing.T) {
		require.NoError(t, json.Unmarshal([]byte(`{"description": null}`), &p))
		assert.True(t, p.Description.Set)
		assert.True(t, p.Description.Null)
		assert.Nil(t, p.Description.Ptr())
	})

	t.Run("value", func(t *testing.T) {
		id := uuid.New()
		body := `{"description": "rent", "category_id": "` + id.String() + `"}`
		require.NoError(t, json.Unmarshal([]byte(body), &p))
		require.NotNil(t, p.Description.Ptr())
		assert.Equal(t, "rent", *p.Description.Ptr())
		assert.Equal(t, id, p.CategoryID.Value)
	})

	t.Run("bad value", func(t *testing.T) {
		err := json.Unmarshal([]byte(`{"category_id": "nope"}`), &p)
		assert.Error(t, err)
	})
}

func TestOptional_apply(t *testing.T) {
	current := "old"
	dst := &current

	Optional[string]{}.apply(&dst)
	require.NotNil(t, dst)
	assert.Equal(t, "old", *dst)

	Some("new").apply(&dst)
	require.NotNil(t, dst)
	assert.Equal(t, "new", *dst)

	Null[string]().apply(&dst)
	assert.Nil(t, dst)
}
