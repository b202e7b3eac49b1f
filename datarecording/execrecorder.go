package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecTableName is the table written by ExecRecorder.
const ExecTableName = "exec_info"

// ExecInfo is one property of the program execution.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records how the program was invoked and when it ran.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// NewExecRecorder creates the exec_info table in recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(ExecTableName, ExecInfo{})

	return &ExecRecorder{recorder: recorder}
}

// Start logs the command line, the working directory and the start time.
func (e *ExecRecorder) Start() {
	e.entries = append(e.entries,
		ExecInfo{"Start Time", timestamp()},
		ExecInfo{"Command", strings.Join(os.Args, " ")},
	)

	if cwd, err := os.Getwd(); err == nil {
		e.entries = append(e.entries, ExecInfo{"Working Directory", cwd})
	}
}

// End writes the buffered properties along with the end time.
func (e *ExecRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(ExecTableName, entry)
	}

	e.recorder.InsertData(ExecTableName, ExecInfo{"End Time", timestamp()})
	e.entries = nil

	e.recorder.Flush()
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05.000000000")
}
