package types

// RunStatus is the external view of one sweep iteration.
type RunStatus struct {
	Label    string `json:"label"`
	State    string `json:"state"`
	Error    string `json:"error,omitempty"`
	MergeMS  int64  `json:"merge_ms,omitempty"`
	UploadMS int64  `json:"upload_ms,omitempty"`
}

// StatusResponse is the payload served at /status while a sweep runs.
type StatusResponse struct {
	Sweep     string      `json:"sweep"`
	State     string      `json:"state"`
	Total     int         `json:"total"`
	Completed int         `json:"completed"`
	Failed    int         `json:"failed"`
	Current   string      `json:"current,omitempty"`
	Runs      []RunStatus `json:"runs"`
}
