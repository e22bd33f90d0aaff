package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/bridge"
	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/model"
)

// CreateTable generates the CREATE TABLE DDL for schema and executes
// it against the table's dataset. DDL is dialect-neutral DuckDB SQL;
// unlike query statements it does not need to go through the
// translator.
func (s *Store) CreateTable(ctx context.Context, table ident.Table, schema model.TableSchema) (model.Table, error) {
	if err := s.pool.EnsureDataset(ctx, table.Project, table.Dataset); err != nil {
		return model.Table{}, err
	}
	exists, err := s.tableExists(ctx, table)
	if err != nil {
		return model.Table{}, err
	}
	if exists {
		return model.Table{}, apperr.AlreadyExists("table %q already exists", table.Qualified())
	}

	ddl := schemaToDDL(table.Qualified(), schema)
	if _, err := s.pool.DB().ExecContext(ctx, ddl); err != nil {
		return model.Table{}, apperr.Wrap(apperr.KindInvalidQuery, err, "could not create table %q", table.Qualified())
	}

	now := nowSeconds()
	t := model.Table{
		Kind: "bigquery#table",
		TableReference: model.TableReference{
			ProjectID: table.Project.Raw(),
			DatasetID: table.Dataset.Raw(),
			TableID:   table.Name.Raw(),
		},
		Schema_:          schema,
		CreationTime:     now,
		LastModifiedTime: now,
		Type:             "TABLE",
	}
	if err := s.putTableRecord(ctx, table, t); err != nil {
		return model.Table{}, err
	}
	return t, nil
}

func (s *Store) tableExists(ctx context.Context, table ident.Table) (bool, error) {
	var count int
	err := s.pool.DB().QueryRowContext(ctx, `
		SELECT count(*) FROM information_schema.tables
		WHERE table_catalog = ? AND table_schema = ? AND table_name = ?`,
		table.Project.Raw(), table.Dataset.Raw(), table.Name.Raw(),
	).Scan(&count)
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, err, "could not check table existence")
	}
	return count > 0, nil
}

func (s *Store) putTableRecord(ctx context.Context, table ident.Table, t model.Table) error {
	payload, err := marshalPayload(t)
	if err != nil {
		return err
	}
	_, err = s.pool.DB().ExecContext(ctx,
		`INSERT OR REPLACE INTO `+s.metaTable("tables")+` (project, dataset, table_name, payload) VALUES (?, ?, ?, ?)`,
		table.Project.Raw(), table.Dataset.Raw(), table.Name.Raw(), payload,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not write table metadata")
	}
	return nil
}

// GetTable reads a table's schema straight from the engine's own
// catalog (the authoritative source per spec §4.3) and its metadata
// record for everything else.
func (s *Store) GetTable(ctx context.Context, table ident.Table) (model.Table, error) {
	exists, err := s.tableExists(ctx, table)
	if err != nil {
		return model.Table{}, err
	}
	if !exists {
		return model.Table{}, apperr.NotFound("table %q not found", table.Qualified())
	}

	schema, err := s.describeTable(ctx, table)
	if err != nil {
		return model.Table{}, err
	}

	var t model.Table
	var payload string
	err = s.pool.DB().QueryRowContext(ctx,
		`SELECT payload FROM `+s.metaTable("tables")+` WHERE project = ? AND dataset = ? AND table_name = ?`,
		table.Project.Raw(), table.Dataset.Raw(), table.Name.Raw(),
	).Scan(&payload)
	if err == nil {
		if uerr := unmarshalPayload(payload, &t); uerr != nil {
			return model.Table{}, uerr
		}
	} else {
		now := nowSeconds()
		t = model.Table{
			Kind: "bigquery#table",
			TableReference: model.TableReference{
				ProjectID: table.Project.Raw(),
				DatasetID: table.Dataset.Raw(),
				TableID:   table.Name.Raw(),
			},
			CreationTime:     now,
			LastModifiedTime: now,
			Type:             "TABLE",
		}
	}
	t.Schema_ = schema
	return t, nil
}

// describeTable derives a wire schema from the engine's own column
// catalog, so a table created by a raw CREATE TABLE (outside
// CreateTable) still reports a correct schema.
func (s *Store) describeTable(ctx context.Context, table ident.Table) (model.TableSchema, error) {
	rows, err := s.pool.DB().QueryContext(ctx, `
		SELECT column_name, data_type FROM information_schema.columns
		WHERE table_catalog = ? AND table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`,
		table.Project.Raw(), table.Dataset.Raw(), table.Name.Raw(),
	)
	if err != nil {
		return model.TableSchema{}, apperr.Wrap(apperr.KindInternal, err, "could not describe table %q", table.Qualified())
	}
	defer rows.Close()

	var fields []model.Field
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return model.TableSchema{}, apperr.Wrap(apperr.KindInternal, err, "could not scan column row")
		}
		engineType, err := bridge.ParseEngineType(dataType)
		if err != nil {
			return model.TableSchema{}, err
		}
		field, err := bridge.FieldFor(name, engineType, false)
		if err != nil {
			return model.TableSchema{}, err
		}
		fields = append(fields, field)
	}
	return model.TableSchema{Fields: fields}, rows.Err()
}

// ListTables reads from the engine catalog and filters by project and,
// if given, dataset, sorted by (project, dataset, table).
func (s *Store) ListTables(ctx context.Context, project ident.Ident, dataset ident.Ident) ([]model.TableListEntry, error) {
	query := `
		SELECT table_schema, table_name FROM information_schema.tables
		WHERE table_catalog = ?`
	args := []any{project.Raw()}
	if !dataset.Empty() {
		query += ` AND table_schema = ?`
		args = append(args, dataset.Raw())
	}

	rows, err := s.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "could not list tables")
	}
	defer rows.Close()

	type key struct{ dataset, table string }
	var keys []key
	for rows.Next() {
		var ds, tbl string
		if err := rows.Scan(&ds, &tbl); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, err, "could not scan table row")
		}
		keys = append(keys, key{ds, tbl})
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "could not list tables")
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].dataset != keys[j].dataset {
			return keys[i].dataset < keys[j].dataset
		}
		return keys[i].table < keys[j].table
	})

	out := make([]model.TableListEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.TableListEntry{
			Kind: "bigquery#table",
			ID:   fmt.Sprintf("%s:%s.%s", project.Raw(), k.dataset, k.table),
			TableReference: model.TableReference{
				ProjectID: project.Raw(),
				DatasetID: k.dataset,
				TableID:   k.table,
			},
			Type: "TABLE",
		})
	}
	return out, nil
}

// ListTableNames returns the bare table names of a single dataset, for
// the translator's wildcard table expansion.
func (s *Store) ListTableNames(ctx context.Context, project, dataset ident.Ident) ([]string, error) {
	entries, err := s.ListTables(ctx, project, dataset)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.TableReference.TableID)
	}
	return names, nil
}

// DeleteTable drops the table and its metadata record.
func (s *Store) DeleteTable(ctx context.Context, table ident.Table) error {
	_, err := s.pool.DB().ExecContext(ctx, `DROP TABLE IF EXISTS `+table.Qualified())
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidQuery, err, "could not drop table %q", table.Qualified())
	}
	_, err = s.pool.DB().ExecContext(ctx,
		`DELETE FROM `+s.metaTable("tables")+` WHERE project = ? AND dataset = ? AND table_name = ?`,
		table.Project.Raw(), table.Dataset.Raw(), table.Name.Raw(),
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not delete table metadata")
	}
	return nil
}

// InsertAll inserts a batch of rows, each an opaque JSON object, into
// table. Missing fields across heterogeneous rows are filled with
// null via bridge.FillMissingFields so a single parameterized INSERT
// can bind every row positionally.
func (s *Store) InsertAll(ctx context.Context, table ident.Table, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}
	columns, filled := bridge.FillMissingFields(rows)

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
		placeholders[i] = "?"
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table.Qualified(), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	tx, err := s.pool.DB().BeginTx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not start insert transaction")
	}
	defer func() { _ = tx.Rollback() }()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidQuery, err, "could not prepare insert for table %q", table.Qualified())
	}
	defer prepared.Close()

	for i, row := range filled {
		args := make([]any, len(columns))
		for j, c := range columns {
			args[j] = row[c]
		}
		if _, err := prepared.ExecContext(ctx, args...); err != nil {
			return apperr.Wrap(apperr.KindInvalidQuery, err, "could not insert row %d into table %q", i, table.Qualified())
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not commit insert")
	}
	return nil
}
