package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "linkboard/pkg/domain"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("LINKBOARD_ENV", "development")
	t.Setenv("JWT_SIGNING_ALG", "HS256")
	t.Setenv("JWT_SIGNING_KEY", "tokengen-test-signing-key")
	t.Setenv("JWT_SIGNING_KEY_FILE", "")
	t.Setenv("JTI_BACKEND", "file")
	t.Setenv("JTI_FILE_PATH", filepath.Join(t.TempDir(), "jtis.jsonl"))
}

func TestCLITokenRoundTrip(t *testing.T) {
	setupEnv(t)
	ctx := context.Background()
	userID := id.NewUserID().String()

	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"cli", "-user-id", userID, "-json"}, &out))

	var issued tokenOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &issued))
	assert.Equal(t, "cli", issued.Type)
	assert.Equal(t, userID, issued.UserID)
	assert.NotEmpty(t, issued.JTI)
	assert.Nil(t, issued.ExpiresAt)

	// The file backend persists across process-level invocations.
	out.Reset()
	require.NoError(t, run(ctx, []string{"list", "-user-id", userID}, &out))
	assert.Contains(t, out.String(), issued.JTI)

	out.Reset()
	require.NoError(t, run(ctx, []string{"revoke", "-jti", issued.JTI}, &out))

	out.Reset()
	require.NoError(t, run(ctx, []string{"list", "-user-id", userID}, &out))
	assert.NotContains(t, out.String(), issued.JTI)
}

func TestSessionTokenExpires(t *testing.T) {
	setupEnv(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"session", "-json"}, &out))

	var issued tokenOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &issued))
	assert.Equal(t, "session", issued.Type)
	require.NotNil(t, issued.ExpiresAt)
	assert.Empty(t, issued.JTI)
}

func TestCommandErrors(t *testing.T) {
	setupEnv(t)
	ctx := context.Background()
	var out bytes.Buffer

	assert.Error(t, run(ctx, nil, &out))
	assert.Error(t, run(ctx, []string{"mint"}, &out))
	assert.Error(t, run(ctx, []string{"cli", "-user-id", "not-a-uuid"}, &out))
	assert.Error(t, run(ctx, []string{"revoke"}, &out))
	assert.Error(t, run(ctx, []string{"user", "-email", "a@example.com"}, &out))
	assert.NoError(t, run(ctx, []string{"help"}, &out))
}

func TestCreateUser(t *testing.T) {
	setupEnv(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"user", "-email", "Alice@Example.com", "-password", "correct horse"}, &out))
	assert.Contains(t, out.String(), "alice@example.com")
}
