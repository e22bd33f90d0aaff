// Package query implements the query executor (C6): it acquires a
// session against the embedded engine, runs a (possibly
// multi-statement) script through the translator, binds any JS UDFs
// it declares, and converts the final statement's result set into the
// wire row/schema shape.
package query

import (
	"context"
	"database/sql"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/bridge"
	"github.com/novucs/local-bigquery/internal/catalog"
	"github.com/novucs/local-bigquery/internal/engine"
	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/model"
	"github.com/novucs/local-bigquery/internal/translate"
	"github.com/novucs/local-bigquery/internal/udf"
)

// Result is the shaped outcome of running a statement list: the final
// non-UDF statement's schema and rows, per spec §4.6.
type Result struct {
	Schema    model.TableSchema
	Rows      []model.Row
	TotalRows uint64
}

// Executor runs translated SQL against the embedded engine.
type Executor struct {
	pool       *engine.Pool
	catalog    *catalog.Store
	translator *translate.Translator
	udfs       *udf.Registry
}

// New builds an Executor.
func New(pool *engine.Pool, store *catalog.Store, translator *translate.Translator, udfs *udf.Registry) *Executor {
	return &Executor{pool: pool, catalog: store, translator: translator, udfs: udfs}
}

// Run executes query against (project, dataset), falling back to the
// catalog's default dataset if the requested one is not registered,
// per spec §4.6. params carries the request's query parameters,
// positional or named.
func (e *Executor) Run(ctx context.Context, project, dataset ident.Ident, queryText string, params []model.QueryParameter) (*Result, error) {
	dataset = e.resolveDataset(ctx, project, dataset)
	// Attach the project and create the dataset on first reference,
	// before the session below takes the pool's only connection.
	if err := e.pool.EnsureDataset(ctx, project, dataset); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "could not open %s.%s", project.Raw(), dataset.Raw())
	}

	conn, err := e.pool.DB().Conn(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "could not acquire engine session")
	}
	defer conn.Close()

	if err := e.use(ctx, conn, project, dataset); err != nil {
		return nil, err
	}

	named := bridge.NamedParameters(params)
	paramValues := make(map[string]model.QueryParameterValue, len(named))
	for _, p := range named {
		paramValues[p.Name] = p.ParameterValue
	}

	stmts, err := e.translator.Translate(ctx, queryText, project, dataset, paramValues)
	if err != nil {
		return nil, err
	}

	var last *Result
	for _, stmt := range stmts {
		if stmt.Kind == translate.StmtUDF {
			if err := e.udfs.Bind(ctx, e.pool, stmt.UDF); err != nil {
				return nil, err
			}
			continue
		}

		args, err := scopedArgs(named, stmt.ParamNames)
		if err != nil {
			return nil, err
		}

		rows, err := conn.QueryContext(ctx, stmt.SQL, args...)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidQuery, err, "query execution failed")
		}
		result, err := shapeRows(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		last = result
	}

	if last == nil {
		return &Result{Schema: model.TableSchema{Fields: []model.Field{}}}, nil
	}
	return last, nil
}

// resolveDataset falls back to the catalog's default dataset when the
// requested one is not registered.
func (e *Executor) resolveDataset(ctx context.Context, project, dataset ident.Ident) ident.Ident {
	if dataset.Empty() {
		return e.catalog.DefaultDataset()
	}
	if _, err := e.catalog.GetDataset(ctx, project, dataset); err != nil {
		if tagged := apperr.Of(err); tagged.Kind() == apperr.KindNotFound {
			return e.catalog.DefaultDataset()
		}
	}
	return dataset
}

func (e *Executor) use(ctx context.Context, conn *sql.Conn, project, dataset ident.Ident) error {
	_, err := conn.ExecContext(ctx, "USE "+ident.Join(project, dataset))
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidQuery, err, "could not open session on %s.%s", project.Raw(), dataset.Raw())
	}
	return nil
}

// scopedArgs builds the []any of sql.NamedArg for exactly the
// parameter names the translator reported as referenced (spec §4.4
// step 5), so engines that reject unused parameters don't choke.
func scopedArgs(named []model.QueryParameter, wantNames []string) ([]any, error) {
	if len(wantNames) == 0 {
		return nil, nil
	}
	want := make(map[string]bool, len(wantNames))
	for _, n := range wantNames {
		want[n] = true
	}

	scoped := make([]model.QueryParameter, 0, len(wantNames))
	for _, p := range named {
		if want[p.Name] {
			scoped = append(scoped, p)
		}
	}

	values, err := bridge.ToEngineParams(scoped)
	if err != nil {
		return nil, err
	}
	args := make([]any, 0, len(values))
	for name, v := range values {
		args = append(args, sql.Named(name, v))
	}
	return args, nil
}

// shapeRows converts a *sql.Rows into the wire row/schema shape, per
// spec §4.2.
func shapeRows(rows *sql.Rows) (*Result, error) {
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "could not inspect result columns")
	}

	engineTypes := make([]bridge.EngineType, len(columnTypes))
	fields := make([]model.Field, len(columnTypes))
	for i, ct := range columnTypes {
		et, err := bridge.ParseEngineType(ct.DatabaseTypeName())
		if err != nil {
			return nil, err
		}
		engineTypes[i] = et
		field, err := bridge.FieldFor(ct.Name(), et, false)
		if err != nil {
			return nil, err
		}
		fields[i] = field
	}

	var wireRows []model.Row
	for rows.Next() {
		dest := make([]any, len(columnTypes))
		for i := range dest {
			dest[i] = new(any)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, err, "could not scan result row")
		}

		cells := make([]model.Cell, len(dest))
		for i, d := range dest {
			v := *(d.(*any))
			cv, err := bridge.ToCellValue(v, engineTypes[i], false)
			if err != nil {
				return nil, err
			}
			cells[i] = model.Cell{V: cv}
		}
		wireRows = append(wireRows, model.Row{F: cells})
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "error iterating result rows")
	}

	return &Result{
		Schema:    model.TableSchema{Fields: fields},
		Rows:      wireRows,
		TotalRows: uint64(len(wireRows)),
	}, nil
}
