package model

// JobState is the status state-machine tag for a Job.
type JobState string

// The three job states. Core only ever produces DONE, since execution
// is synchronous, but the protocol must permit the other two.
const (
	JobStatePending JobState = "PENDING"
	JobStateRunning JobState = "RUNNING"
	JobStateDone    JobState = "DONE"
)

// JobReference identifies a job by its (project, job) key.
type JobReference struct {
	ProjectID string `json:"projectId"`
	JobID     string `json:"jobId"`
	Location  string `json:"location,omitempty"`
}

// JobStatus carries the state-machine state plus any terminal errors.
type JobStatus struct {
	State       JobState      `json:"state"`
	ErrorResult *ErrorProto   `json:"errorResult,omitempty"`
	Errors      []ErrorProto  `json:"errors,omitempty"`
}

// BiEngineMode tags whether BI Engine accelerated a query. The
// emulator never enables it.
type BiEngineMode string

// The only mode the emulator produces.
const BiEngineModeDisabled BiEngineMode = "DISABLED"

// BiEngineReasonCode tags why BI Engine did not accelerate a query.
type BiEngineReasonCode string

// The reason the emulator always reports.
const BiEngineReasonOther BiEngineReasonCode = "OTHER_REASON"

// BiEngineStatistics reports BI Engine (non-)acceleration for a query
// job. The emulator always reports it disabled.
type BiEngineStatistics struct {
	BiEngineMode    BiEngineMode        `json:"biEngineMode"`
	BiEngineReasons []BiEngineReason    `json:"biEngineReasons,omitempty"`
}

// BiEngineReason is one entry in BiEngineStatistics.BiEngineReasons.
type BiEngineReason struct {
	Code    BiEngineReasonCode `json:"code"`
	Message string             `json:"message,omitempty"`
}

// SessionInfo reports the session a statement ran within.
type SessionInfo struct {
	SessionID string `json:"sessionId"`
}

// JobCreationReasonCode tags why a job was created.
type JobCreationReasonCode string

// The only creation reason the emulator reports: the client asked for
// one explicitly (as opposed to being reused from cache).
const JobCreationRequested JobCreationReasonCode = "REQUESTED"

// JobCreationReason wraps JobCreationReasonCode for the wire.
type JobCreationReason struct {
	Code JobCreationReasonCode `json:"code"`
}

// JobStatisticsQuery carries the query-specific statistics nested
// inside JobStatistics.
type JobStatisticsQuery struct {
	StatementType      string              `json:"statementType,omitempty"`
	TotalBytesProcessed string             `json:"totalBytesProcessed,omitempty"`
	TotalBytesBilled    string             `json:"totalBytesBilled,omitempty"`
	CacheHit            bool               `json:"cacheHit,omitempty"`
	BiEngineStatistics  *BiEngineStatistics `json:"biEngineStatistics,omitempty"`
}

// JobStatistics carries the timing and type information attached to a
// completed job.
type JobStatistics struct {
	CreationTime string              `json:"creationTime,omitempty"`
	StartTime    string              `json:"startTime,omitempty"`
	EndTime      string              `json:"endTime,omitempty"`
	TotalSlotMs  string              `json:"totalSlotMs,omitempty"`
	Query        *JobStatisticsQuery `json:"query,omitempty"`
	SessionInfo  *SessionInfo        `json:"sessionInfo,omitempty"`
}

// JobConfigurationQuery is the "query" member of a Job's
// configuration: the submitted SQL and its parameters.
type JobConfigurationQuery struct {
	Query              string           `json:"query"`
	UseLegacySQL       *bool            `json:"useLegacySql,omitempty"`
	DefaultDataset     *DatasetReference `json:"defaultDataset,omitempty"`
	QueryParameters    []QueryParameter `json:"queryParameters,omitempty"`
	ParameterMode      string           `json:"parameterMode,omitempty"`
}

// JobConfiguration is the "configuration" member of a Job: presently
// only query jobs are modeled, since load/extract/copy jobs are
// unimplemented surface (see spec §1 scope).
type JobConfiguration struct {
	JobType string                 `json:"jobType,omitempty"`
	Query   *JobConfigurationQuery `json:"query,omitempty"`
	Labels  map[string]string      `json:"labels,omitempty"`
}

// Job is the full wire representation of an asynchronous job.
type Job struct {
	Kind              string             `json:"kind"`
	Etag              string             `json:"etag,omitempty"`
	ID                string             `json:"id,omitempty"`
	SelfLink          string             `json:"selfLink,omitempty"`
	JobReference      JobReference       `json:"jobReference"`
	Configuration     *JobConfiguration  `json:"configuration,omitempty"`
	Statistics        *JobStatistics     `json:"statistics,omitempty"`
	Status            JobStatus          `json:"status"`
	JobCreationReason *JobCreationReason `json:"jobCreationReason,omitempty"`
	UserEmail         string             `json:"user_email,omitempty"`
}

// JobListEntry is the trimmed-down Job shape returned by jobs.list.
type JobListEntry struct {
	ID            string            `json:"id"`
	Kind          string            `json:"kind"`
	JobReference  JobReference      `json:"jobReference"`
	State         JobState          `json:"state"`
	Status        JobStatus         `json:"status"`
	Configuration *JobConfiguration `json:"configuration,omitempty"`
}

// JobList is the response envelope for jobs.list.
type JobList struct {
	Kind          string         `json:"kind"`
	Etag          string         `json:"etag,omitempty"`
	Jobs          []JobListEntry `json:"jobs,omitempty"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
}

// JobCancelResponse is the response body of jobs.cancel.
type JobCancelResponse struct {
	Kind string `json:"kind"`
	Job  Job    `json:"job"`
}
