// File path: internal/cli/env.go
package cli

import (
	"errors"
	"fmt"
	"os"
)

// envTemplate is the credentials file scaffolded on first setup. Values are
// placeholders; godotenv loads the file at process start.
const envTemplate = `# Telegram API credentials (https://my.telegram.org)
TELEGRAM_API_ID=your_api_id
TELEGRAM_API_HASH=your_api_hash

# One of the two session forms is required for non-interactive use.
# TELEGRAM_SESSION_STRING is a Telethon-format string session;
# TELEGRAM_SESSION_FILE is written by "famapi session generate".
TELEGRAM_SESSION_STRING=
TELEGRAM_SESSION_FILE=session.json

# Optional: only needed for interactive login / accounts with 2FA.
TELEGRAM_PHONE=
TELEGRAM_PASSWORD=

# Lookup group: -100-prefixed channel ID or @username.
TELEGRAM_CHAT=

# Postgres connection string (Supabase: Settings -> Database).
FAM_DATABASE_URL=

# S3 backup target.
S3_BUCKET_NAME=fam-api-database
AWS_REGION=us-east-1
AWS_ACCESS_KEY_ID=
AWS_SECRET_ACCESS_KEY=
`

// ensureEnvFile writes the template at path unless a file already exists.
// Reports whether a new file was created.
func ensureEnvFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(envTemplate), 0o600); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
