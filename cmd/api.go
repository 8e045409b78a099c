package main

import (
	jsoniter "github.com/json-iterator/go"
)

// DAIA documents can be large for journals with many bound volumes; decode
// them with jsoniter configured for stdlib compatibility.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HoldingItem is one physical or electronic copy record for a bibliographic
// work as returned by the DAIA connector. Field names follow the connector's
// JSON contract.
type HoldingItem struct {
	ID                      string   `json:"id"`
	Available               bool     `json:"availability"`
	Location                string   `json:"location"`
	LocationHref            string   `json:"locationhref,omitempty"`
	CallNumber              string   `json:"callnumber"`
	Services                []string `json:"services,omitempty"`
	LimitationTypes         []string `json:"limitation_types,omitempty"`
	DueDate                 string   `json:"duedate,omitempty"`
	RequestsPlaced          int      `json:"requests_placed"`
	HasRecallLink           bool     `json:"addLink"`
	RecallLink              string   `json:"link,omitempty"`
	HasStorageRetrievalLink bool     `json:"addStorageRetrievalRequestLink"`
	StorageRetrievalLink    string   `json:"storageRetrievalRequestLink,omitempty"`
	Weblink                 string   `json:"weblink,omitempty"`
	UseUnknownStatus        bool     `json:"use_unknown_message"`
	Status                  string   `json:"status,omitempty"`
}

// Item status values reported by some backends for copies that left the
// collection without being deaccessioned.
const (
	statusMissing = "missing"
	statusLost    = "lost"
)

// daiaDocument is the holdings envelope the DAIA connector returns for a
// single bibliographic ID.
type daiaDocument struct {
	ID       string `json:"id"`
	Holdings []struct {
		Items []HoldingItem `json:"items"`
	} `json:"holdings"`
}

// Counts summarizes the classified copies of one work.
type Counts struct {
	Total                 int
	Available             int
	Reference             int
	Lent                  int
	Borrowable            int
	StackOrder            int
	Electronic            int
	DienstApp             int
	ReservedWithoutLink   int
	CompletelyUnavailable int
}

// OptionKind tags the patron action a single copy offers.
type OptionKind string

// The closed set of per-copy option kinds.
const (
	OptShelf               OptionKind = "shelf"
	OptLocal               OptionKind = "local"
	OptStorageRetrieval    OptionKind = "storageretrieval"
	OptElectronic          OptionKind = "electronic"
	OptDA                  OptionKind = "da"
	OptRara                OptionKind = "rara"
	OptReservedWithoutLink OptionKind = "reserved_without_link"
	OptAskStaff            OptionKind = "askstaff"
	OptRecall              OptionKind = "recall"
)

// PatronOption is the recommendation the resolver hands to the renderer.
type PatronOption string

// Wire values kept compatible with the existing client-side renderer.
const (
	BestNone                PatronOption = "none"
	BestShelf               PatronOption = "shelf"
	BestLocal               PatronOption = "local"
	BestStorageRetrieval    PatronOption = "storageretrieval"
	BestRecall              PatronOption = "recall"
	BestDA                  PatronOption = "da"
	BestServiceDesk         PatronOption = "service_desk"
	BestAskStaff            PatronOption = "askstaff"
	BestReservedWithoutLink PatronOption = "reserved_without_link"
	BestEOnly               PatronOption = "e_only"
	BestRequestOrLocal      PatronOption = "request_or_local"
	BestSeeCopies           PatronOption = "see_copies"
	BestReserveOrLocal      PatronOption = "reserve_or_local"
	BestAcquired            PatronOption = "acquired"
	BestAlreadyTaken        PatronOption = "already_taken_by_patron"
	BestUnknown             PatronOption = "false"
)

// StatusResult is the summarized availability record for one bibliographic
// ID, serialized for the result-list renderer.
type StatusResult struct {
	ID                  string       `json:"id"`
	RecordNumber        int          `json:"record_number"`
	PatronBestOption    PatronOption `json:"patronBestOption"`
	BestOptionHref      string       `json:"bestOptionHref"`
	BestOptionLocation  string       `json:"bestOptionLocation"`
	PlacedRequests      int          `json:"placed_requests"`
	Available           bool         `json:"availability"`
	AvailabilityMessage string       `json:"availability_message"`
	AdditionalMessage   string       `json:"additional_availability_message,omitempty"`
	LocationHref        string       `json:"locHref,omitempty"`
	Location            string       `json:"location,omitempty"`
	CallNumber          string       `json:"callnumber"`
	DueDate             string       `json:"duedate,omitempty"`
	PresenceIndicator   string       `json:"presenceOnly"`
	Electronic          bool         `json:"electronic"`
	MultiVolumes        bool         `json:"multiVols"`
	MissingData         bool         `json:"missing_data,omitempty"`

	// Unresolved marks a record the best-option cascade could not decide.
	// The handler replaces it with the exhaustive per-location summary.
	Unresolved bool `json:"-"`
}
