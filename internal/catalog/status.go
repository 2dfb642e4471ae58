package catalog

// SyncStatus tracks the lifecycle of one resource's synchronization.
type SyncStatus int

const (
	StatusIdle SyncStatus = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

func (s SyncStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}
