package debug

import "os"

const (
	DebugKey          = "GATEWAY_DEBUG"
	DebugShowSetupKey = "DEBUG_SHOW_SETUP"
)

func isDebugSet() bool {
	return os.Getenv(DebugKey) == "true"
}

func isDebugShowSetupSet() bool {
	return os.Getenv(DebugShowSetupKey) == "true"
}
