package testutil

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Test logs are discarded unless the test binary runs verbosely or
// ACTIONS_TEST_LOG is set.
func init() {
	logrus.SetLevel(logrus.TraceLevel)

	if !isVerbose() {
		logrus.StandardLogger().Out = io.Discard
	}
}

func isVerbose() bool {
	if os.Getenv("ACTIONS_TEST_LOG") != "" {
		return true
	}

	for _, arg := range os.Args {
		switch {
		case arg == "-test.v", arg == "-test.v=true", strings.HasPrefix(arg, "-test.v=test2json"):
			return true
		}
	}
	return false
}

// DisableLogging silences the standard logger until the returned func is called.
func DisableLogging() (reset func()) {
	logger := logrus.StandardLogger()
	originalLogOutput := logger.Out
	logger.Out = io.Discard
	return func() {
		logger.Out = originalLogOutput
	}
}
