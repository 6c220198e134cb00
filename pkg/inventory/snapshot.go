package inventory

// ItemSnapshot is one inventory entry as handed to the expiry scheduler. The
// scheduler treats it as read-only input; ID is the stable identity across
// fetches, ExpiryDate is a plain YYYY-MM-DD calendar date with no time
// component.
type ItemSnapshot struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	ExpiryDate  string  `json:"expiryDate"`
	Quantity    float64 `json:"quantity,omitempty"`
	Unit        string  `json:"unit,omitempty"`
}
