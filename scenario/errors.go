package scenario

import (
	"errors"
	"fmt"
)

// ErrCycleLimit is returned by Run when the configured cycle limit is
// reached before the scenario finishes. Acceptance that never comes blocks
// a driver forever, so bounding the total run time is the runner's job.
var ErrCycleLimit = errors.New("cycle limit reached before scenario finished")

// A ConfigurationError reports an invalid scenario configuration, such as a
// missing channel binding. It is raised at build time, before the scenario
// starts running.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("scenario configuration: %s", e.Reason)
}
