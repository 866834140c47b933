package workers

import (
	"io"

	"github.com/cbodonnell/sus/pkg/log"
)

func newDiscardLogger() *log.Logger {
	return log.New(io.Discard, "", log.DefaultLoggerFlag, log.LogLevelTrace)
}
