package dto

// AddRangesRequest carries strict tokens: one bad token rejects the whole
// request.
type AddRangesRequest struct {
	Tokens []string `json:"tokens"`
}

type RemoveRangesRequest struct {
	Cidrs []string `json:"cidrs"`
}

type RangeSetResponse struct {
	Addresses []string `json:"addresses"`
	Count     int      `json:"count"`
}

type RemoveResponse struct {
	Removed int `json:"removed"`
	Count   int `json:"count"`
}

type ContainsResponse struct {
	IP      string `json:"ip"`
	Blocked bool   `json:"blocked"`
}
