// Package testing is imported for its side effect by package tests: it marks
// the process as a test run and quiets the default log level.
package testing

import "os"

// Mirrors app.TestModeEnv; importing internal/app here would pull the whole
// router into every test binary.
const testModeEnv = "SHIPTRACK_TEST_MODE"

func init() {
	if _, ok := os.LookupEnv(testModeEnv); !ok {
		_ = os.Setenv(testModeEnv, "1")
	}
	if os.Getenv("LOG_LEVEL") == "" {
		_ = os.Setenv("LOG_LEVEL", "error")
	}
}
