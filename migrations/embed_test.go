package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpFilesOrderedWithMatchingDown(t *testing.T) {
	files, err := UpFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)

	assert.IsNonDecreasing(t, files)
	for _, up := range files {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(FS, down)
		assert.NoError(t, err, "missing %s", down)
	}
}

func TestSchemaDeclaresCoreTables(t *testing.T) {
	var all strings.Builder
	files, err := UpFiles()
	require.NoError(t, err)
	for _, f := range files {
		b, err := fs.ReadFile(FS, f)
		require.NoError(t, err)
		all.Write(b)
	}
	schema := all.String()
	for _, table := range []string{"users", "cli_token_jtis", "login_failed_attempts", "login_blocks"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	assert.Contains(t, schema, "(username IS NULL) <> (address IS NULL)")
}
