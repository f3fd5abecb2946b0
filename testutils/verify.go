package testutils

import (
	"go.uber.org/goleak"
)

// VerifyTestMain runs a package's tests and fails if goroutines are still running afterwards.
func VerifyTestMain(m goleak.TestingM) {
	goleak.VerifyTestMain(m)
}
