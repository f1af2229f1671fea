package logs

import (
	"io"
	"os"

	"github.com/reusee/hostobj/cmds"
)

type Writer io.Writer

var logFile = cmds.Var[string]("-log-file", "HOSTOBJ_LOG_FILE")

// Writer appends to the log file when one is set, stderr otherwise.
func (Module) Writer() Writer {
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			return f
		}
	}
	return os.Stderr
}
