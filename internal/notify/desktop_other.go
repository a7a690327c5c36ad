//go:build !windows

package notify

// DesktopSink reports false: desktop notifications are only supported on
// Windows.
func DesktopSink(appID string) (Sink, bool) {
	return nil, false
}
