package model

// QueryParameterTypeKind distinguishes the four parameter type-tree
// shapes: a bare scalar, ARRAY, STRUCT, or RANGE.
type QueryParameterTypeKind string

// The four type-tree shapes a QueryParameterType may take. ARRAY,
// STRUCT and RANGE are recognized by the Type field carrying these
// literal strings, matching the real wire format; any other Type
// value is a scalar type name (STRING, INT64, FLOAT64, ...).
const (
	ParamTypeArray  QueryParameterTypeKind = "ARRAY"
	ParamTypeStruct QueryParameterTypeKind = "STRUCT"
	ParamTypeRange  QueryParameterTypeKind = "RANGE"
)

// QueryParameterType is a node in a parameter's type tree.
type QueryParameterType struct {
	Type           string                    `json:"type"`
	ArrayType      *QueryParameterType        `json:"arrayType,omitempty"`
	StructTypes    []QueryParameterStructType `json:"structTypes,omitempty"`
	RangeElementType *QueryParameterType      `json:"rangeElementType,omitempty"`
}

// QueryParameterStructType names one ordered field of a STRUCT type.
type QueryParameterStructType struct {
	Name string             `json:"name,omitempty"`
	Type QueryParameterType `json:"type"`
}

// QueryParameterValue is a node in a parameter's value tree, mirroring
// the shape of its companion QueryParameterType.
type QueryParameterValue struct {
	Value        *string                         `json:"value,omitempty"`
	ArrayValues  []QueryParameterValue           `json:"arrayValues,omitempty"`
	StructValues map[string]QueryParameterValue  `json:"structValues,omitempty"`
	RangeValue   *QueryParameterRangeValue        `json:"rangeValue,omitempty"`
}

// QueryParameterRangeValue carries the two endpoints of a RANGE value.
// Either endpoint may be nil, representing an unbounded end.
type QueryParameterRangeValue struct {
	Start *QueryParameterValue `json:"start,omitempty"`
	End   *QueryParameterValue `json:"end,omitempty"`
}

// QueryParameter is one named-or-positional parameter of a query
// request. A Name of "" marks it positional; bridge.NamedParameters
// gives it the synthetic name param<i>, where i is its index in the
// request's parameter list.
type QueryParameter struct {
	Name            string             `json:"name,omitempty"`
	ParameterType   QueryParameterType `json:"parameterType"`
	ParameterValue  QueryParameterValue `json:"parameterValue"`
}

// QueryRequest is the body of POST .../queries.
type QueryRequest struct {
	Kind              string            `json:"kind,omitempty"`
	Query             string            `json:"query"`
	MaxResults        *uint             `json:"maxResults,omitempty"`
	DefaultDataset    *DatasetReference `json:"defaultDataset,omitempty"`
	TimeoutMs         *uint             `json:"timeoutMs,omitempty"`
	DryRun            bool              `json:"dryRun,omitempty"`
	UseLegacySQL      *bool             `json:"useLegacySql,omitempty"`
	QueryParameters   []QueryParameter  `json:"queryParameters,omitempty"`
	ParameterMode     string            `json:"parameterMode,omitempty"`
	Location          string            `json:"location,omitempty"`
	RequestID         string            `json:"requestId,omitempty"`
}

// QueryResponse is the response body of POST .../queries.
type QueryResponse struct {
	Kind                string        `json:"kind"`
	Schema_             TableSchema   `json:"schema,omitempty"`
	JobReference        JobReference  `json:"jobReference"`
	QueryID             string        `json:"queryId,omitempty"`
	TotalRows           string        `json:"totalRows"`
	PageToken           string        `json:"pageToken,omitempty"`
	Rows                []Row         `json:"rows,omitempty"`
	TotalBytesProcessed string        `json:"totalBytesProcessed"`
	JobComplete         bool          `json:"jobComplete"`
	Errors              []ErrorProto  `json:"errors,omitempty"`
	CacheHit            bool          `json:"cacheHit"`
	NumDmlAffectedRows  string        `json:"numDmlAffectedRows,omitempty"`
	SessionInfo         *SessionInfo  `json:"sessionInfo,omitempty"`
	CreationTime        string        `json:"creationTime,omitempty"`
	StartTime           string        `json:"startTime,omitempty"`
	EndTime             string        `json:"endTime,omitempty"`
	TotalBytesBilled    string        `json:"totalBytesBilled,omitempty"`
	TotalSlotMs         string        `json:"totalSlotMs,omitempty"`
	JobCreationReason   *JobCreationReason `json:"jobCreationReason,omitempty"`
}

// GetQueryResultsResponse is the response body of GET
// .../queries/{jobId}: the persisted QueryResult companion of a job.
type GetQueryResultsResponse struct {
	Kind                string       `json:"kind"`
	Etag                string       `json:"etag,omitempty"`
	Schema_             TableSchema  `json:"schema,omitempty"`
	JobReference        JobReference `json:"jobReference"`
	TotalRows           string       `json:"totalRows"`
	PageToken           string       `json:"pageToken,omitempty"`
	Rows                []Row        `json:"rows,omitempty"`
	TotalBytesProcessed string       `json:"totalBytesProcessed,omitempty"`
	JobComplete         bool         `json:"jobComplete"`
	Errors              []ErrorProto `json:"errors,omitempty"`
	CacheHit            bool         `json:"cacheHit"`
	NumDmlAffectedRows  string       `json:"numDmlAffectedRows,omitempty"`
}
