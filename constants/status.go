package constants

// JobStatus is the canonical status for rows in extract_jobs.
type JobStatus string

// Stable values (store these exact strings in the catalog).
const (
	JobStatusQueued  JobStatus = "QUEUED"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusOK      JobStatus = "OK"
	JobStatusFailed  JobStatus = "FAILED"
)

// Tier names the two extraction strategies.
type Tier string

const (
	TierModel     Tier = "MODEL"
	TierHeuristic Tier = "HEURISTIC"
)
