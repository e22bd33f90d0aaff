package model

// TableReference identifies a table by its (project, dataset, table)
// key.
type TableReference struct {
	ProjectID string `json:"projectId"`
	DatasetID string `json:"datasetId"`
	TableID   string `json:"tableId"`
}

// Table is the full wire representation of a table.
//
// The wire key "schema" collides with reserved identifiers in some
// client languages; Schema_ is its safe-named Go alias, still
// serialized under the original "schema" key.
type Table struct {
	Kind             string         `json:"kind"`
	Etag             string         `json:"etag,omitempty"`
	ID               string         `json:"id,omitempty"`
	SelfLink         string         `json:"selfLink,omitempty"`
	TableReference   TableReference `json:"tableReference"`
	FriendlyName     *string        `json:"friendlyName,omitempty"`
	Description      *string        `json:"description,omitempty"`
	Labels           map[string]string `json:"labels,omitempty"`
	Schema_          TableSchema    `json:"schema"`
	NumRows          string         `json:"numRows,omitempty"`
	NumBytes         string         `json:"numBytes,omitempty"`
	CreationTime     string         `json:"creationTime,omitempty"`
	LastModifiedTime string         `json:"lastModifiedTime,omitempty"`
	Type             string         `json:"type,omitempty"`
	Location         string         `json:"location,omitempty"`
}

// TableListEntry is the trimmed-down Table shape returned by
// tables.list.
type TableListEntry struct {
	Kind           string         `json:"kind"`
	ID             string         `json:"id"`
	TableReference TableReference `json:"tableReference"`
	FriendlyName   *string        `json:"friendlyName,omitempty"`
	Type           string         `json:"type,omitempty"`
	CreationTime   string         `json:"creationTime,omitempty"`
}

// TableList is the response envelope for tables.list.
type TableList struct {
	Kind          string           `json:"kind"`
	Etag          string           `json:"etag,omitempty"`
	Tables        []TableListEntry `json:"tables,omitempty"`
	TotalItems    int              `json:"totalItems,omitempty"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
}

// TableDataInsertAllRequest is the body of tabledata.insertAll.
type TableDataInsertAllRequest struct {
	Kind               string              `json:"kind,omitempty"`
	SkipInvalidRows    bool                `json:"skipInvalidRows,omitempty"`
	IgnoreUnknownValues bool               `json:"ignoreUnknownValues,omitempty"`
	TemplateSuffix     string              `json:"templateSuffix,omitempty"`
	Rows               []InsertAllRequestRow `json:"rows"`
}

// InsertAllRequestRow is one row of an insertAll request: an opaque
// JSON object of column name to value, optionally tagged with an
// insertId for de-duplication (not enforced by the emulator).
type InsertAllRequestRow struct {
	InsertID string         `json:"insertId,omitempty"`
	JSON     map[string]any `json:"json"`
}

// TableDataInsertAllResponse is the response body of
// tabledata.insertAll.
type TableDataInsertAllResponse struct {
	Kind          string                `json:"kind"`
	InsertErrors  []InsertAllRowError   `json:"insertErrors,omitempty"`
}

// InsertAllRowError reports a failed row by its index in the request.
type InsertAllRowError struct {
	Index  int           `json:"index"`
	Errors []ErrorProto  `json:"errors"`
}

// TableDataList is the response envelope for tabledata.list.
type TableDataList struct {
	Kind          string `json:"kind"`
	Etag          string `json:"etag,omitempty"`
	Rows          []Row  `json:"rows"`
	TotalRows     string `json:"totalRows"`
	PageToken     string `json:"pageToken,omitempty"`
}
