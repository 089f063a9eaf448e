package nhctax

import "time"

// SearchMode selects which form endpoint, token slot and cache
// partition a query runs against.
type SearchMode string

const (
	ModeOwner   SearchMode = "owner"
	ModeAddress SearchMode = "address"
	ModeParcel  SearchMode = "parcel"
	ModeDetail  SearchMode = "detail"
)

// the portal names the parcel mode "parid"
var portalModes = map[SearchMode]string{
	ModeOwner:   "owner",
	ModeAddress: "address",
	ModeParcel:  "parid",
}

var queryFields = map[SearchMode]string{
	ModeOwner:   "ctl00$cphPage$txtOwner",
	ModeAddress: "ctl00$cphPage$txtAddress",
	ModeParcel:  "ctl00$cphPage$txtParID",
}

// reports whether m can be submitted as a search form.
// ModeDetail is a cache partition only, it has no form endpoint.
func (m SearchMode) Searchable() bool {
	_, ok := portalModes[m]
	return ok
}

type PropertyRecord struct {
	ParcelID        string `json:"parcel_id"`
	OwnerName       string `json:"owner_name,omitempty"`
	PropertyAddress string `json:"property_address,omitempty"`
	// kept as the upstream currency string, never parsed to a number
	TaxValue        string    `json:"tax_value,omitempty"`
	DetailURL       string    `json:"detail_url,omitempty"`
	SearchTimestamp time.Time `json:"search_timestamp"`
}

// DetailRecord extends a search row with whatever key/value
// attributes the detail page exposes. The attribute set varies
// by parcel so there is no fixed schema beyond the base fields.
type DetailRecord struct {
	PropertyRecord
	Attributes map[string]string `json:"attributes"`
}

type SystemStatus struct {
	Available          bool
	StatusCode         int
	MaintenanceMode    bool
	HasExpectedContent bool
	ResponseTime       time.Duration
}
