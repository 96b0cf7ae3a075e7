package ipc

// Request carries one control command: status, wake, sleep, or stop.
type Request struct {
	Command string `json:"command"`
}

// Counts summarizes session dispatch activity for status responses.
type Counts struct {
	Batches    int `json:"batches"`
	Dispatched int `json:"dispatched"`
	Unmatched  int `json:"unmatched"`
	Failed     int `json:"failed"`
}

type Response struct {
	OK      bool    `json:"ok"`
	State   string  `json:"state,omitempty"`
	Counts  *Counts `json:"counts,omitempty"`
	Message string  `json:"message,omitempty"`
	Error   string  `json:"error,omitempty"`
}
