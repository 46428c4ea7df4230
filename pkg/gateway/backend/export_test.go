package backend

import "testing"

func SetMaxResponseBody(t testing.TB, limit int64) {
	t.Helper()

	previous := maxResponseBody
	maxResponseBody = limit
	t.Cleanup(func() { maxResponseBody = previous })
}
