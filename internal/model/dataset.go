package model

// StorageBillingModel tags how a dataset's storage is billed.
// LOGICAL is the only value the emulator ever produces.
type StorageBillingModel string

// The two storage billing tags the wire format defines.
const (
	StorageBillingLogical  StorageBillingModel = "LOGICAL"
	StorageBillingPhysical StorageBillingModel = "PHYSICAL"
)

// LinkState tags whether a dataset is a linked (cross-project) view.
// The emulator only ever produces UNLINKED.
type LinkState string

// The two link-state tags the wire format defines.
const (
	LinkStateLinked   LinkState = "LINKED"
	LinkStateUnlinked LinkState = "UNLINKED"
)

// DatasetReference identifies a dataset by its (project, dataset) key.
type DatasetReference struct {
	ProjectID string `json:"projectId"`
	DatasetID string `json:"datasetId"`
}

// Dataset is the full wire representation of a dataset.
type Dataset struct {
	Kind                string              `json:"kind"`
	Etag                string              `json:"etag,omitempty"`
	ID                  string              `json:"id,omitempty"`
	SelfLink            string              `json:"selfLink,omitempty"`
	DatasetReference    DatasetReference    `json:"datasetReference"`
	FriendlyName        *string             `json:"friendlyName,omitempty"`
	Description         *string             `json:"description,omitempty"`
	DefaultTableExpirationMs *string        `json:"defaultTableExpirationMs,omitempty"`
	Labels              map[string]string   `json:"labels,omitempty"`
	Access              []DatasetAccess     `json:"access,omitempty"`
	CreationTime        string              `json:"creationTime,omitempty"`
	LastModifiedTime    string              `json:"lastModifiedTime,omitempty"`
	Location            string              `json:"location,omitempty"`
	StorageBillingModel StorageBillingModel `json:"storageBillingModel,omitempty"`
	LinkState           LinkState           `json:"linkedDatasetSource,omitempty"`
	ResourceTags        map[string]string   `json:"resourceTags,omitempty"`
}

// DatasetAccess grants one principal a role over a dataset. The
// emulator does not enforce it (IAM is stubbed) but round-trips it for
// client-library compatibility.
type DatasetAccess struct {
	Role         string `json:"role,omitempty"`
	UserByEmail  string `json:"userByEmail,omitempty"`
	GroupByEmail string `json:"groupByEmail,omitempty"`
	SpecialGroup string `json:"specialGroup,omitempty"`
}

// DatasetListEntry is the trimmed-down Dataset shape returned by
// datasets.list.
type DatasetListEntry struct {
	Kind             string           `json:"kind"`
	ID               string           `json:"id"`
	DatasetReference DatasetReference `json:"datasetReference"`
	FriendlyName     *string          `json:"friendlyName,omitempty"`
	Labels           map[string]string `json:"labels,omitempty"`
	Location         string           `json:"location,omitempty"`
}

// DatasetList is the response envelope for datasets.list.
type DatasetList struct {
	Kind      string              `json:"kind"`
	Etag      string              `json:"etag,omitempty"`
	Datasets  []DatasetListEntry  `json:"datasets,omitempty"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
}
