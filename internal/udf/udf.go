// Package udf implements the JS UDF binder (C5): it takes the
// declarations internal/translate recognizes and registers them as
// callable scalar functions on the embedded engine, backed by an
// embedded JavaScript runtime.
package udf

import (
	"context"
	"database/sql/driver"
	"fmt"
	"sync"

	duckdb "github.com/marcboeker/go-duckdb"
	"github.com/dop251/goja"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/engine"
	"github.com/novucs/local-bigquery/internal/metrics"
	"github.com/novucs/local-bigquery/internal/translate"
	log "github.com/sirupsen/logrus"
)

// Registry tracks every UDF declared on a session, for signature
// reporting to the engine binding layer (spec §4.5).
type Registry struct {
	mu    sync.Mutex
	byName map[string]*translate.UDFDecl
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*translate.UDFDecl{}}
}

// Bind registers decl as a native scalar function on pool, and records
// it in the registry so its signature can be reported back.
func (r *Registry) Bind(ctx context.Context, pool *engine.Pool, decl *translate.UDFDecl) error {
	conn, err := pool.DB().Conn(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not acquire connection to bind UDF %q", decl.Name)
	}
	defer conn.Close()

	fn := &jsScalarFunc{decl: decl}
	err = conn.Raw(func(raw any) error {
		c, ok := raw.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection type %T", raw)
		}
		return duckdb.RegisterScalarUDF(c, decl.Name, fn)
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidQuery, err, "could not register UDF %q", decl.Name)
	}

	r.mu.Lock()
	r.byName[decl.Name] = decl
	r.mu.Unlock()
	log.WithField("udf", decl.Name).Debug("bound JS UDF")
	return nil
}

// Lookup returns the declaration a name was bound with, for signature
// validation by callers that need it ahead of execution.
func (r *Registry) Lookup(name string) (*translate.UDFDecl, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	decl, ok := r.byName[name]
	return decl, ok
}

// jsScalarFunc adapts a UDFDecl to the engine's scalar-function
// interface, evaluating the JS body with goja per spec §4.5: a fresh
// execution context per call, `var f = function(<argnames>) {
// <body> };`, then f invoked positionally.
type jsScalarFunc struct {
	decl *translate.UDFDecl
}

func (f *jsScalarFunc) Config() duckdb.ScalarFuncConfig {
	args := make([]duckdb.TypeInfo, len(f.decl.Params))
	for i, p := range f.decl.Params {
		args[i] = engineTypeInfo(p.Type)
	}
	return duckdb.ScalarFuncConfig{
		InputTypeInfos: args,
		ResultTypeInfo: engineTypeInfo(f.decl.ReturnType),
	}
}

func (f *jsScalarFunc) Executor() duckdb.ScalarFuncExecutor {
	return duckdb.ScalarFuncExecutor{RowExecutor: f.evalRow}
}

func (f *jsScalarFunc) evalRow(values []driver.Value) (any, error) {
	metrics.UDFInvocations.WithLabelValues(f.decl.Name).Inc()
	vm := goja.New()

	argNames := make([]string, len(f.decl.Params))
	for i, p := range f.decl.Params {
		argNames[i] = p.Name
	}
	src := fmt.Sprintf("var f = function(%s) { %s };", joinComma(argNames), f.decl.Body)
	if _, err := vm.RunString(src); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidQuery, err, "UDF %q body failed to compile", f.decl.Name)
	}

	fv := vm.Get("f")
	callable, ok := goja.AssertFunction(fv)
	if !ok {
		return nil, apperr.New(apperr.KindInternal, "UDF %q did not produce a callable", f.decl.Name)
	}

	args := make([]goja.Value, len(values))
	for i, v := range values {
		args[i] = vm.ToValue(v)
	}
	result, err := callable(goja.Undefined(), args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidQuery, err, "UDF %q raised an exception", f.decl.Name)
	}
	return result.Export(), nil
}

func joinComma(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

// engineTypeInfo maps a declared UDF param/return type name (an
// engine type per spec §4.5, defaulting to STRING) to the duckdb
// driver's logical type descriptor.
func engineTypeInfo(typeName string) duckdb.TypeInfo {
	t, ok := duckdbTypeByName[typeName]
	if !ok {
		t = duckdb.TYPE_VARCHAR
	}
	info, err := duckdb.NewTypeInfo(t)
	if err != nil {
		// Falls back to VARCHAR, which NewTypeInfo always accepts.
		info, _ = duckdb.NewTypeInfo(duckdb.TYPE_VARCHAR)
	}
	return info
}

var duckdbTypeByName = map[string]duckdb.Type{
	"INT64":     duckdb.TYPE_BIGINT,
	"FLOAT64":   duckdb.TYPE_DOUBLE,
	"NUMERIC":   duckdb.TYPE_DECIMAL,
	"BOOL":      duckdb.TYPE_BOOLEAN,
	"BOOLEAN":   duckdb.TYPE_BOOLEAN,
	"STRING":    duckdb.TYPE_VARCHAR,
	"BYTES":     duckdb.TYPE_BLOB,
	"DATE":      duckdb.TYPE_DATE,
	"TIMESTAMP": duckdb.TYPE_TIMESTAMP,
	"DATETIME":  duckdb.TYPE_TIMESTAMP,
}
