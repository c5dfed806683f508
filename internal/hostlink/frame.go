package hostlink

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Типы служебных кадров; остальные типы - события сервера.
const (
	typeResponse  = "response"
	typeBroadcast = "broadcast"
	typePing      = "ping"
)

type Frame struct {
	Seq     uint64          `json:"seq,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// encodeFrame: Frame → JSON-дерево → structpb.Struct → protobuf.
func encodeFrame(f Frame) ([]byte, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, eris.Wrap(err, "encode frame")
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, eris.Wrap(err, "encode frame")
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, eris.Wrap(err, "encode frame")
	}
	return proto.Marshal(s)
}

func decodeFrame(data []byte) (Frame, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return Frame{}, eris.Wrap(err, "decode frame")
	}
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return Frame{}, eris.Wrap(err, "decode frame")
	}
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Frame{}, eris.Wrap(err, "decode frame")
	}
	if f.Type == "" {
		return Frame{}, eris.New("decode frame: missing type")
	}
	return f, nil
}

func newFrame(typ string, payload any) (Frame, error) {
	f := Frame{Type: typ}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Frame{}, eris.Wrapf(err, "encode %s payload", typ)
		}
		f.Payload = raw
	}
	return f, nil
}
