package debug

// IsDebug switches the HTTP router to gin's debug mode.
func IsDebug() bool {
	return isDebugSet()
}

// IsDebugShowSetup logs the resolved configuration at startup, secrets redacted.
func IsDebugShowSetup() bool {
	return isDebugShowSetupSet()
}
