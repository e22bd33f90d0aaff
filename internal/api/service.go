// Package api exposes the emulator's operations as a thin Go-method
// contract, one per entry in the HTTP surface table of spec §6. C9 —
// an HTTP dispatcher wrapping these methods with routing and JSON
// (de)serialization — is explicitly out of scope; this layer is what
// such a dispatcher would call.
package api

import (
	"sort"

	"context"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/catalog"
	"github.com/novucs/local-bigquery/internal/engine"
	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/jobs"
	"github.com/novucs/local-bigquery/internal/model"
)

// Service implements every emulator operation the external interface
// table in spec §6 names.
type Service struct {
	pool    *engine.Pool
	catalog *catalog.Store
	jobs    *jobs.Manager
}

// New builds a Service.
func New(pool *engine.Pool, store *catalog.Store, jobManager *jobs.Manager) *Service {
	return &Service{pool: pool, catalog: store, jobs: jobManager}
}

// ListProjects implements GET /projects.
func (s *Service) ListProjects(_ context.Context) (model.ProjectList, error) {
	ids := s.pool.Projects()
	sort.Strings(ids)

	projects := make([]model.Project, 0, len(ids))
	for _, id := range ids {
		projects = append(projects, model.Project{
			Kind:             "bigquery#project",
			ID:               id,
			ProjectReference: model.ProjectReference{ProjectID: id},
		})
	}
	return model.ProjectList{Kind: "bigquery#projectList", Projects: projects}, nil
}

// ListDatasets implements GET /projects/{p}/datasets.
func (s *Service) ListDatasets(ctx context.Context, project ident.Ident) (model.DatasetList, error) {
	datasets, err := s.catalog.ListDatasets(ctx, project)
	if err != nil {
		return model.DatasetList{}, err
	}
	entries := make([]model.DatasetListEntry, 0, len(datasets))
	for _, d := range datasets {
		entries = append(entries, model.DatasetListEntry{
			Kind:             "bigquery#dataset",
			ID:               d.ID,
			DatasetReference: d.DatasetReference,
			FriendlyName:     d.FriendlyName,
			Labels:           d.Labels,
			Location:         d.Location,
		})
	}
	return model.DatasetList{Kind: "bigquery#datasetList", Datasets: entries}, nil
}

// GetDataset implements GET /projects/{p}/datasets/{d}.
func (s *Service) GetDataset(ctx context.Context, project, dataset ident.Ident) (model.Dataset, error) {
	return s.catalog.GetDataset(ctx, project, dataset)
}

// InsertDataset implements POST /projects/{p}/datasets.
func (s *Service) InsertDataset(ctx context.Context, project ident.Ident, ds model.Dataset) (model.Dataset, error) {
	return s.catalog.CreateDataset(ctx, project, ds)
}

// UpdateDataset implements PUT /projects/{p}/datasets/{d}.
func (s *Service) UpdateDataset(ctx context.Context, project, dataset ident.Ident, ds model.Dataset) (model.Dataset, error) {
	return s.catalog.UpdateDataset(ctx, project, dataset, ds)
}

// PatchDataset implements PATCH /projects/{p}/datasets/{d}.
func (s *Service) PatchDataset(ctx context.Context, project, dataset ident.Ident, patch model.Dataset) (model.Dataset, error) {
	return s.catalog.PatchDataset(ctx, project, dataset, patch)
}

// DeleteDataset implements DELETE /projects/{p}/datasets/{d}.
func (s *Service) DeleteDataset(ctx context.Context, project, dataset ident.Ident) error {
	return s.catalog.DeleteDataset(ctx, project, dataset)
}

// ListTables implements GET /projects/{p}/datasets/{d}/tables.
func (s *Service) ListTables(ctx context.Context, project, dataset ident.Ident) (model.TableList, error) {
	entries, err := s.catalog.ListTables(ctx, project, dataset)
	if err != nil {
		return model.TableList{}, err
	}
	return model.TableList{Kind: "bigquery#tableList", Tables: entries, TotalItems: len(entries)}, nil
}

// InsertTable implements POST /projects/{p}/datasets/{d}/tables.
func (s *Service) InsertTable(ctx context.Context, project, dataset ident.Ident, tableID string, schema model.TableSchema) (model.Table, error) {
	return s.catalog.CreateTable(ctx, ident.NewTable(project.Raw(), dataset.Raw(), tableID), schema)
}

// GetTable implements GET /projects/{p}/datasets/{d}/tables/{t}. Per
// spec §6 this endpoint may legitimately return 501; the emulator
// implements it in full since it is backed directly by C3.
func (s *Service) GetTable(ctx context.Context, table ident.Table) (model.Table, error) {
	return s.catalog.GetTable(ctx, table)
}

// DeleteTable implements DELETE /projects/{p}/datasets/{d}/tables/{t}.
func (s *Service) DeleteTable(ctx context.Context, table ident.Table) error {
	return s.catalog.DeleteTable(ctx, table)
}

// InsertAllRows implements POST .../tables/{t}/insertAll.
func (s *Service) InsertAllRows(ctx context.Context, table ident.Table, req model.TableDataInsertAllRequest) (model.TableDataInsertAllResponse, error) {
	rows := make([]map[string]any, len(req.Rows))
	for i, r := range req.Rows {
		rows[i] = r.JSON
	}
	if err := s.catalog.InsertAll(ctx, table, rows); err != nil {
		return model.TableDataInsertAllResponse{}, err
	}
	return model.TableDataInsertAllResponse{Kind: "bigquery#tableDataInsertAllResponse"}, nil
}

// RunQuery implements POST /projects/{p}/queries.
func (s *Service) RunQuery(ctx context.Context, project ident.Ident, req model.QueryRequest) (model.QueryResponse, error) {
	job, err := s.jobs.SubmitQuery(ctx, project, req)
	if err != nil {
		return model.QueryResponse{}, err
	}
	results, err := s.jobs.GetQueryResults(ctx, project, job.JobReference.JobID)
	if err != nil {
		return model.QueryResponse{}, err
	}
	return model.QueryResponse{
		Kind:                "bigquery#queryResponse",
		Schema_:             results.Schema_,
		JobReference:        job.JobReference,
		TotalRows:           results.TotalRows,
		Rows:                results.Rows,
		TotalBytesProcessed: results.TotalBytesProcessed,
		JobComplete:         true,
		CacheHit:            results.CacheHit,
	}, nil
}

// GetQueryResults implements GET /projects/{p}/queries/{j}.
func (s *Service) GetQueryResults(ctx context.Context, project ident.Ident, jobID string) (model.GetQueryResultsResponse, error) {
	return s.jobs.GetQueryResults(ctx, project, jobID)
}

// ListJobs implements GET /projects/{p}/jobs.
func (s *Service) ListJobs(ctx context.Context, project ident.Ident) (model.JobList, error) {
	all, err := s.jobs.ListJobs(ctx, project)
	if err != nil {
		return model.JobList{}, err
	}
	entries := make([]model.JobListEntry, 0, len(all))
	for _, j := range all {
		entries = append(entries, model.JobListEntry{
			ID:            j.ID,
			Kind:          "bigquery#job",
			JobReference:  j.JobReference,
			State:         j.Status.State,
			Status:        j.Status,
			Configuration: j.Configuration,
		})
	}
	return model.JobList{Kind: "bigquery#jobList", Jobs: entries}, nil
}

// GetJob implements GET /projects/{p}/jobs/{j}.
func (s *Service) GetJob(ctx context.Context, project ident.Ident, jobID string) (model.Job, error) {
	return s.jobs.GetJob(ctx, project, jobID)
}

// CancelJob implements POST /projects/{p}/jobs/{j}/cancel.
func (s *Service) CancelJob(ctx context.Context, project ident.Ident, jobID string) (model.JobCancelResponse, error) {
	job, err := s.jobs.CancelJob(ctx, project, jobID)
	if err != nil {
		return model.JobCancelResponse{}, err
	}
	return model.JobCancelResponse{Kind: "bigquery#jobCancelResponse", Job: job}, nil
}

// DeleteJob implements DELETE /projects/{p}/jobs/{j}.
func (s *Service) DeleteJob(ctx context.Context, project ident.Ident, jobID string) error {
	return s.jobs.DeleteJob(ctx, project, jobID)
}

// LoadTable, ExtractTable and CopyTable are the load/extract/copy job
// types spec §4.3's Job model tags as unimplemented surface (see spec
// §1 Non-goals); they are wired here purely to make the gap visible
// to callers rather than leaving it silently absent.
func (s *Service) LoadTable(_ context.Context, _ ident.Table) error {
	return apperr.NotImplemented("load jobs")
}

func (s *Service) ExtractTable(_ context.Context, _ ident.Table) error {
	return apperr.NotImplemented("extract jobs")
}

func (s *Service) CopyTable(_ context.Context, _ ident.Table, _ ident.Table) error {
	return apperr.NotImplemented("copy jobs")
}
