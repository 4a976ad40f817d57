package notifier

import (
	"log"

	"github.com/kazudmb/time-record/module/checkin/domain"
)

// Log writes notifications to the standard logger.
type Log struct {
	logger *log.Logger
}

func NewLog(logger *log.Logger) *Log {
	if logger == nil {
		logger = log.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Notify(n domain.Notification) {
	if n.Description == "" {
		l.logger.Printf("[%s] %s", n.Level, n.Title)
		return
	}
	l.logger.Printf("[%s] %s (%s)", n.Level, n.Title, n.Description)
}
