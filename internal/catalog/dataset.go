package catalog

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/model"
)

// ListDatasets enumerates every schema attached under project in the
// embedded engine, backfilling a synthetic metadata row for any schema
// that has no recorded Dataset (for example, one created by a raw DDL
// statement rather than through CreateDataset).
func (s *Store) ListDatasets(ctx context.Context, project ident.Ident) ([]model.Dataset, error) {
	rows, err := s.pool.DB().QueryContext(ctx, `
		SELECT schema_name FROM information_schema.schemata
		WHERE catalog_name = ? ORDER BY schema_name`, project.Raw())
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "could not list schemas for project %q", project.Raw())
	}
	defer rows.Close()

	// Read every name before the per-schema lookups below: the pool has
	// a single connection, which the open rows would otherwise hold.
	var names []string
	for rows.Next() {
		var schemaName string
		if err := rows.Scan(&schemaName); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, err, "could not scan schema row")
		}
		names = append(names, schemaName)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "could not list schemas for project %q", project.Raw())
	}
	_ = rows.Close()

	var out []model.Dataset
	for _, schemaName := range names {
		if isReservedSchema(schemaName) {
			continue
		}
		ds, err := s.getDatasetRecord(ctx, project, ident.Ident(schemaName))
		if err != nil {
			return nil, err
		}
		if ds == nil {
			ds = s.synthesizeDataset(project, ident.Ident(schemaName))
			if err := s.putDatasetRecord(ctx, *ds); err != nil {
				return nil, err
			}
		}
		out = append(out, *ds)
	}
	return out, nil
}

func isReservedSchema(name string) bool {
	return name == "information_schema" || name == "main" || name == "pg_catalog"
}

func (s *Store) synthesizeDataset(project, dataset ident.Ident) *model.Dataset {
	now := nowSeconds()
	return &model.Dataset{
		Kind:                "bigquery#dataset",
		DatasetReference:    model.DatasetReference{ProjectID: project.Raw(), DatasetID: dataset.Raw()},
		Location:            "US",
		StorageBillingModel: model.StorageBillingLogical,
		LinkState:           model.LinkStateUnlinked,
		CreationTime:        now,
		LastModifiedTime:    now,
	}
}

// nowSeconds formats the current time as whole seconds-since-epoch, per
// spec.md's Dataset/Job metadata timestamp requirement (not to be
// confused with the microsecond TIMESTAMP value rule in
// internal/bridge/values.go's ToMicroseconds).
func nowSeconds() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

func (s *Store) getDatasetRecord(ctx context.Context, project, dataset ident.Ident) (*model.Dataset, error) {
	var payload string
	err := s.pool.DB().QueryRowContext(ctx,
		`SELECT payload FROM `+s.metaTable("datasets")+` WHERE project = ? AND dataset = ?`,
		project.Raw(), dataset.Raw(),
	).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.KindInternal, err, "could not read dataset metadata")
	}
	var ds model.Dataset
	if err := unmarshalPayload(payload, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (s *Store) putDatasetRecord(ctx context.Context, ds model.Dataset) error {
	payload, err := marshalPayload(ds)
	if err != nil {
		return err
	}
	_, err = s.pool.DB().ExecContext(ctx,
		`INSERT OR REPLACE INTO `+s.metaTable("datasets")+` (project, dataset, payload) VALUES (?, ?, ?)`,
		ds.DatasetReference.ProjectID, ds.DatasetReference.DatasetID, payload,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not write dataset metadata")
	}
	return nil
}

// CreateDataset creates a new schema and its metadata record. Returns
// AlreadyExists if the schema is already attached.
func (s *Store) CreateDataset(ctx context.Context, project ident.Ident, ds model.Dataset) (model.Dataset, error) {
	dataset := ident.Strip(ds.DatasetReference.DatasetID)
	exists, err := s.schemaExists(ctx, project, dataset)
	if err != nil {
		return model.Dataset{}, err
	}
	if exists {
		return model.Dataset{}, apperr.AlreadyExists("dataset %q already exists in project %q", dataset.Raw(), project.Raw())
	}

	now := nowSeconds()
	ds.Kind = "bigquery#dataset"
	ds.DatasetReference = model.DatasetReference{ProjectID: project.Raw(), DatasetID: dataset.Raw()}
	ds.CreationTime = now
	ds.LastModifiedTime = now
	if ds.StorageBillingModel == "" {
		ds.StorageBillingModel = model.StorageBillingLogical
	}
	if ds.LinkState == "" {
		ds.LinkState = model.LinkStateUnlinked
	}
	if ds.Location == "" {
		ds.Location = "US"
	}

	if err := s.putDatasetRecord(ctx, ds); err != nil {
		return model.Dataset{}, err
	}
	if err := s.pool.EnsureDataset(ctx, project, dataset); err != nil {
		return model.Dataset{}, err
	}
	return ds, nil
}

func (s *Store) schemaExists(ctx context.Context, project, dataset ident.Ident) (bool, error) {
	var count int
	err := s.pool.DB().QueryRowContext(ctx, `
		SELECT count(*) FROM information_schema.schemata
		WHERE catalog_name = ? AND schema_name = ?`, project.Raw(), dataset.Raw(),
	).Scan(&count)
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, err, "could not check schema existence")
	}
	return count > 0, nil
}

// DeleteDataset drops the schema (and every table within it) and its
// metadata record.
func (s *Store) DeleteDataset(ctx context.Context, project, dataset ident.Ident) error {
	if err := s.pool.DropDataset(ctx, project, dataset); err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not drop dataset %q", dataset.Raw())
	}
	_, err := s.pool.DB().ExecContext(ctx,
		`DELETE FROM `+s.metaTable("datasets")+` WHERE project = ? AND dataset = ?`,
		project.Raw(), dataset.Raw(),
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not delete dataset metadata")
	}
	return nil
}

// GetDataset returns the dataset's metadata record, synthesizing one
// if the schema exists but has no record yet.
func (s *Store) GetDataset(ctx context.Context, project, dataset ident.Ident) (model.Dataset, error) {
	exists, err := s.schemaExists(ctx, project, dataset)
	if err != nil {
		return model.Dataset{}, err
	}
	if !exists {
		return model.Dataset{}, apperr.NotFound("dataset %q not found in project %q", dataset.Raw(), project.Raw())
	}
	ds, err := s.getDatasetRecord(ctx, project, dataset)
	if err != nil {
		return model.Dataset{}, err
	}
	if ds == nil {
		synthesized := s.synthesizeDataset(project, dataset)
		if err := s.putDatasetRecord(ctx, *synthesized); err != nil {
			return model.Dataset{}, err
		}
		ds = synthesized
	}
	return *ds, nil
}

// UpdateDataset replaces the stored record wholesale. NotFound if
// absent.
func (s *Store) UpdateDataset(ctx context.Context, project, dataset ident.Ident, ds model.Dataset) (model.Dataset, error) {
	if _, err := s.GetDataset(ctx, project, dataset); err != nil {
		return model.Dataset{}, err
	}
	ds.DatasetReference = model.DatasetReference{ProjectID: project.Raw(), DatasetID: dataset.Raw()}
	ds.LastModifiedTime = nowSeconds()
	if err := s.putDatasetRecord(ctx, ds); err != nil {
		return model.Dataset{}, err
	}
	return ds, nil
}

// PatchDataset merges patch onto the existing record: a nil pointer
// field in patch leaves the stored value untouched, matching the
// unset-aware PATCH semantics of spec §4.3.
func (s *Store) PatchDataset(ctx context.Context, project, dataset ident.Ident, patch model.Dataset) (model.Dataset, error) {
	existing, err := s.GetDataset(ctx, project, dataset)
	if err != nil {
		return model.Dataset{}, err
	}
	if patch.FriendlyName != nil {
		existing.FriendlyName = patch.FriendlyName
	}
	if patch.Description != nil {
		existing.Description = patch.Description
	}
	if patch.DefaultTableExpirationMs != nil {
		existing.DefaultTableExpirationMs = patch.DefaultTableExpirationMs
	}
	if patch.Labels != nil {
		existing.Labels = patch.Labels
	}
	if patch.Access != nil {
		existing.Access = patch.Access
	}
	if patch.StorageBillingModel != "" {
		existing.StorageBillingModel = patch.StorageBillingModel
	}
	existing.LastModifiedTime = nowSeconds()
	if err := s.putDatasetRecord(ctx, existing); err != nil {
		return model.Dataset{}, err
	}
	return existing, nil
}
