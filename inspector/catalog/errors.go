package catalog

import "fmt"

// DiscoveryError reports a malformed source tree; it aborts the whole run
type DiscoveryError struct {
	Root string
	Msg  string
	Err  error
}

func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("discovery failed for %s: %s: %v", e.Root, e.Msg, e.Err)
	}
	return fmt.Sprintf("discovery failed for %s: %s", e.Root, e.Msg)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}
