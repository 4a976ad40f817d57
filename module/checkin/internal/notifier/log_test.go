package notifier

import (
	"bytes"
	"log"
	"testing"

	"github.com/kazudmb/time-record/module/checkin/domain"
)

func TestNotify(t *testing.T) {
	tests := []struct {
		name string
		n    domain.Notification
		want string
	}{
		{"with description", domain.Notification{Level: domain.NotifySuccess, Title: "Check-in registered.", Description: "2026/10/14 09:05:03"}, "[success] Check-in registered. (2026/10/14 09:05:03)\n"},
		{"title only", domain.Notification{Level: domain.NotifyError, Title: "Failed."}, "[error] Failed.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewLog(log.New(&buf, "", 0)).Notify(tt.n)
			if got := buf.String(); got != tt.want {
				t.Fatalf("got %q; want %q", got, tt.want)
			}
		})
	}
}
