package exportsvc

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/attendance/core"
)

// Outcome is the result of one export job.
type Outcome struct {
	JobID   string
	Path    string
	Message string
	Err     error
}

// Runner runs export jobs off the calling goroutine.
type Runner struct {
	logger core.Logger
	wg     sync.WaitGroup
}

func NewRunner(logger core.Logger) *Runner {
	return &Runner{logger: logger}
}

// Go starts job in the background. The returned channel delivers exactly one Outcome and is then closed.
func (r *Runner) Go(name string, job func() (string, error)) <-chan Outcome {
	out := make(chan Outcome, 1)
	id := uuid.NewString()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(out)
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("export %s panicked: %v", name, rec)
				r.logger.Error(err.Error(), err)
				out <- Outcome{JobID: id, Message: "Export failed", Err: err}
			}
		}()

		path, err := job()
		if err != nil {
			r.logger.Error("exporting "+name, err, map[string]interface{}{"job": id})
			out <- Outcome{JobID: id, Message: "Export failed", Err: err}
			return
		}
		r.logger.Info("exported "+name, map[string]interface{}{"job": id, "path": path})
		out <- Outcome{JobID: id, Path: path, Message: "Saved: " + path}
	}()
	return out
}

// Wait blocks until every started job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
