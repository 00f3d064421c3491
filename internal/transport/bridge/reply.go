package bridge

import (
	"encoding/json"
	"io"

	"pixelpet.ai/internal/protocol"
)

// replyWriter isolates the protocol's reply asymmetry: events and
// handler-less queries are acknowledged with raw unframed bytes, while
// handler results travel as length-prefixed JSON frames. Keeping both paths
// behind explicit methods makes the irregularity visible and testable.
type replyWriter struct {
	w io.Writer
}

func (r replyWriter) writeRawAck() error {
	_, err := r.w.Write([]byte(protocol.AckOK))
	return err
}

func (r replyWriter) writeRawErr() error {
	_, err := r.w.Write([]byte(protocol.AckErr))
	return err
}

func (r replyWriter) writeFramedResponse(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return protocol.WriteFrame(r.w, b)
}
