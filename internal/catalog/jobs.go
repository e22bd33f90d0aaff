package catalog

import (
	"context"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/model"
)

// PutJob inserts a new job record. AlreadyExists if (project, jobId)
// is already taken, enforcing the at-most-one constraint of spec
// §4.7.
func (s *Store) PutJob(ctx context.Context, project ident.Ident, job model.Job) error {
	jobID := job.JobReference.JobID
	var count int
	err := s.pool.DB().QueryRowContext(ctx,
		`SELECT count(*) FROM `+s.metaTable("jobs")+` WHERE project = ? AND job_id = ?`,
		project.Raw(), jobID,
	).Scan(&count)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not check job existence")
	}
	if count > 0 {
		return apperr.AlreadyExists("job %q already exists", jobID)
	}

	payload, err := marshalPayload(job)
	if err != nil {
		return err
	}
	_, err = s.pool.DB().ExecContext(ctx,
		`INSERT INTO `+s.metaTable("jobs")+` (project, job_id, payload) VALUES (?, ?, ?)`,
		project.Raw(), jobID, payload,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not persist job %q", jobID)
	}
	return nil
}

// UpdateJob replaces an existing job record. NotFound if absent.
func (s *Store) UpdateJob(ctx context.Context, project ident.Ident, job model.Job) error {
	if _, err := s.GetJob(ctx, project, job.JobReference.JobID); err != nil {
		return err
	}
	payload, err := marshalPayload(job)
	if err != nil {
		return err
	}
	_, err = s.pool.DB().ExecContext(ctx,
		`UPDATE `+s.metaTable("jobs")+` SET payload = ? WHERE project = ? AND job_id = ?`,
		payload, project.Raw(), job.JobReference.JobID,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not update job %q", job.JobReference.JobID)
	}
	return nil
}

// GetJob returns the stored job record. NotFound if absent.
func (s *Store) GetJob(ctx context.Context, project ident.Ident, jobID string) (model.Job, error) {
	var payload string
	err := s.pool.DB().QueryRowContext(ctx,
		`SELECT payload FROM `+s.metaTable("jobs")+` WHERE project = ? AND job_id = ?`,
		project.Raw(), jobID,
	).Scan(&payload)
	if err != nil {
		return model.Job{}, rowNotFound(err, "job %q not found", jobID)
	}
	var job model.Job
	if err := unmarshalPayload(payload, &job); err != nil {
		return model.Job{}, err
	}
	return job, nil
}

// ListJobs returns every job recorded for project.
func (s *Store) ListJobs(ctx context.Context, project ident.Ident) ([]model.Job, error) {
	rows, err := s.pool.DB().QueryContext(ctx,
		`SELECT payload FROM `+s.metaTable("jobs")+` WHERE project = ?`, project.Raw())
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "could not list jobs for project %q", project.Raw())
	}
	defer rows.Close()

	var out []model.Job
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, err, "could not scan job row")
		}
		var job model.Job
		if err := unmarshalPayload(payload, &job); err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// DeleteJob removes a job's record.
func (s *Store) DeleteJob(ctx context.Context, project ident.Ident, jobID string) error {
	_, err := s.pool.DB().ExecContext(ctx,
		`DELETE FROM `+s.metaTable("jobs")+` WHERE project = ? AND job_id = ?`,
		project.Raw(), jobID,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not delete job %q", jobID)
	}
	return nil
}

// PutQueryResult persists the QueryResult companion of a completed
// job, keyed by the same (project, jobId).
func (s *Store) PutQueryResult(ctx context.Context, project ident.Ident, jobID string, result model.GetQueryResultsResponse) error {
	payload, err := marshalPayload(result)
	if err != nil {
		return err
	}
	_, err = s.pool.DB().ExecContext(ctx,
		`INSERT OR REPLACE INTO `+s.metaTable("query_results")+` (project, job_id, payload) VALUES (?, ?, ?)`,
		project.Raw(), jobID, payload,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not persist query result for job %q", jobID)
	}
	return nil
}

// GetQueryResult returns the persisted QueryResult for (project,
// jobId). NotFound if absent.
func (s *Store) GetQueryResult(ctx context.Context, project ident.Ident, jobID string) (model.GetQueryResultsResponse, error) {
	var payload string
	err := s.pool.DB().QueryRowContext(ctx,
		`SELECT payload FROM `+s.metaTable("query_results")+` WHERE project = ? AND job_id = ?`,
		project.Raw(), jobID,
	).Scan(&payload)
	if err != nil {
		return model.GetQueryResultsResponse{}, rowNotFound(err, "query results for job %q not found", jobID)
	}
	var result model.GetQueryResultsResponse
	if err := unmarshalPayload(payload, &result); err != nil {
		return model.GetQueryResultsResponse{}, err
	}
	return result, nil
}
