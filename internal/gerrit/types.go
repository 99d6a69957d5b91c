package gerrit

// ProjectInfo is an entry of the project listing
type ProjectInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Parent      string `json:"parent,omitempty"`
	Description string `json:"description,omitempty"`
	State       string `json:"state,omitempty"`
}

// Response is a raw REST response with the XSSI prefix removed
type Response struct {
	StatusCode int
	Body       []byte
}
