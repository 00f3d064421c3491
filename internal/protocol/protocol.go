package protocol

import "encoding/json"

const Version = "1.0"

// Message types for the request side of the wire.
const (
	TypeQuery  = "QUERY"
	TypeAction = "ACTION"
)

// Raw unframed replies. Events and handler-less queries are acknowledged with
// AckOK; a frame whose payload is not valid JSON is answered with AckErr.
// Neither carries a length prefix, so a client that sent an event reads
// exactly two bytes instead of performing a framed read.
const (
	AckOK  = "OK"
	AckErr = "ERR"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type string `json:"type"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// QueryMsg (status client -> daemon)
type QueryMsg struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

// ActionMsg (status client -> daemon)
type ActionMsg struct {
	Type   string         `json:"type"`
	Action string         `json:"action"`
	Data   map[string]any `json:"data"`
}

// ActionResult (daemon -> status client), framed.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
