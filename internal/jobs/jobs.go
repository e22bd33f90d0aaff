// Package jobs implements the job manager (C7): synchronous query
// submission, and the get/list/cancel/delete surface over the jobs
// internal/catalog persists.
package jobs

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/catalog"
	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/metrics"
	"github.com/novucs/local-bigquery/internal/model"
	"github.com/novucs/local-bigquery/internal/query"
)

// Manager runs query jobs to synchronous completion and persists their
// results, per spec §4.7.
type Manager struct {
	catalog  *catalog.Store
	executor *query.Executor
}

// New builds a Manager.
func New(store *catalog.Store, executor *query.Executor) *Manager {
	return &Manager{catalog: store, executor: executor}
}

// SubmitQuery runs req.Query to completion and persists the resulting
// Job and its companion query results. Execution always completes
// synchronously, so every job this emulator produces is born DONE.
func (m *Manager) SubmitQuery(ctx context.Context, project ident.Ident, req model.QueryRequest) (model.Job, error) {
	jobID := uuid.NewString()
	metrics.JobsSubmitted.WithLabelValues(project.Raw()).Inc()

	var dataset ident.Ident
	if req.DefaultDataset != nil {
		dataset = ident.Strip(req.DefaultDataset.DatasetID)
	}

	timer := prometheus.NewTimer(metrics.QueryLatency.WithLabelValues(project.Raw()))
	result, err := m.executor.Run(ctx, project, dataset, req.Query, req.QueryParameters)
	timer.ObserveDuration()
	if err != nil {
		metrics.JobsFailed.WithLabelValues(project.Raw(), apperr.Of(err).Reason()).Inc()
		return model.Job{}, err
	}

	now := formatSeconds(time.Now())
	job := model.Job{
		Kind: "bigquery#job",
		ID:   project.Raw() + ":" + jobID,
		JobReference: model.JobReference{
			ProjectID: project.Raw(),
			JobID:     jobID,
			Location:  "US",
		},
		Configuration: &model.JobConfiguration{
			JobType: "QUERY",
			Query: &model.JobConfigurationQuery{
				Query:           req.Query,
				UseLegacySQL:    req.UseLegacySQL,
				DefaultDataset:  req.DefaultDataset,
				QueryParameters: req.QueryParameters,
				ParameterMode:   req.ParameterMode,
			},
		},
		Statistics: &model.JobStatistics{
			CreationTime: now,
			StartTime:    now,
			EndTime:      now,
			Query: &model.JobStatisticsQuery{
				StatementType:       "SELECT",
				TotalBytesProcessed: "0",
				TotalBytesBilled:    "0",
				CacheHit:            false,
				BiEngineStatistics: &model.BiEngineStatistics{
					BiEngineMode:    model.BiEngineModeDisabled,
					BiEngineReasons: []model.BiEngineReason{{Code: model.BiEngineReasonOther}},
				},
			},
			SessionInfo: &model.SessionInfo{SessionID: uuid.NewString()},
		},
		Status:            model.JobStatus{State: model.JobStateDone},
		JobCreationReason: &model.JobCreationReason{Code: model.JobCreationRequested},
	}

	if err := m.catalog.PutJob(ctx, project, job); err != nil {
		return model.Job{}, err
	}

	queryResult := model.GetQueryResultsResponse{
		Kind:                "bigquery#getQueryResultsResponse",
		Schema_:             result.Schema,
		JobReference:        job.JobReference,
		TotalRows:           strconv.FormatUint(result.TotalRows, 10),
		Rows:                result.Rows,
		TotalBytesProcessed: "0",
		JobComplete:         true,
		CacheHit:            false,
	}
	if err := m.catalog.PutQueryResult(ctx, project, jobID, queryResult); err != nil {
		return model.Job{}, err
	}

	return job, nil
}

// GetJob returns a persisted job, NotFound if absent.
func (m *Manager) GetJob(ctx context.Context, project ident.Ident, jobID string) (model.Job, error) {
	return m.catalog.GetJob(ctx, project, jobID)
}

// ListJobs returns every job persisted for project.
func (m *Manager) ListJobs(ctx context.Context, project ident.Ident) ([]model.Job, error) {
	return m.catalog.ListJobs(ctx, project)
}

// CancelJob returns the job unchanged: execution is already
// synchronous by the time a client could ask to cancel it.
func (m *Manager) CancelJob(ctx context.Context, project ident.Ident, jobID string) (model.Job, error) {
	return m.catalog.GetJob(ctx, project, jobID)
}

// DeleteJob removes a job record.
func (m *Manager) DeleteJob(ctx context.Context, project ident.Ident, jobID string) error {
	return m.catalog.DeleteJob(ctx, project, jobID)
}

// GetQueryResults returns the companion QueryResult of a completed
// job, NotFound if absent.
func (m *Manager) GetQueryResults(ctx context.Context, project ident.Ident, jobID string) (model.GetQueryResultsResponse, error) {
	return m.catalog.GetQueryResult(ctx, project, jobID)
}

// formatSeconds formats t as whole seconds-since-epoch, matching
// spec.md's Job metadata timestamp requirement (distinct from the
// microsecond TIMESTAMP value rule in internal/bridge/values.go).
func formatSeconds(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
