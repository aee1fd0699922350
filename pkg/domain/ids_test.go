package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "linkboard/pkg/domain-errors"
)

func TestParseUserID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("U1")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("round trips through String", func(t *testing.T) {
		want := NewUserID()
		got, err := ParseUserID(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.False(t, got.IsNil())
	})
}

func TestUserIDJSON(t *testing.T) {
	want := NewUserID()
	data, err := json.Marshal(struct {
		Owner UserID `json:"owner"`
	}{Owner: want})
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"`+want.String()+`"}`, string(data))

	var got struct {
		Owner UserID `json:"owner"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, want, got.Owner)
}
