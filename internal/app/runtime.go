package app

import (
	"os"
	"strconv"
)

// TestModeEnv is set by the repository's testing package. Binaries started
// under it return before opening Postgres or Redis.
const TestModeEnv = "SHIPTRACK_TEST_MODE"

// InTestMode reports whether TestModeEnv holds a true value.
func InTestMode() bool {
	on, err := strconv.ParseBool(os.Getenv(TestModeEnv))
	return err == nil && on
}
