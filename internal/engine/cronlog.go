package engine

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// every fires at a fixed interval measured from the previous activation.
// cron.Every rounds to whole seconds; this does not.
type every time.Duration

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

// cronLogger routes the scheduler's own logging into zap. Cron reports every
// wake-up at info, so that level is demoted to debug.
type cronLogger struct {
	log *zap.SugaredLogger
}

func newCronLogger(l *zap.Logger) cron.Logger {
	return cronLogger{log: l.Sugar()}
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debugw("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
