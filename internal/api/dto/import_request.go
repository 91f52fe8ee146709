package dto

// ImportRequest carries free-form text; address-like candidates are
// extracted and invalid ones dropped silently.
type ImportRequest struct {
	Text string `json:"text"`
}
