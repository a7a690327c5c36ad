//go:build windows

package notify

import (
	"github.com/go-toast/toast"
)

// DesktopSink returns a sink that shows Windows toast notifications.
func DesktopSink(appID string) (Sink, bool) {
	return SinkFunc(func(n Notification) error {
		t := toast.Notification{
			AppID:   appID,
			Title:   n.Title,
			Message: n.Body,
		}
		return t.Push()
	}), true
}
