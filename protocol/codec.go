package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns an outbound message into one wire frame.
type Codec interface {
	Name() string
	Binary() bool // true: websocket binary frame, false: text frame
	Encode(t string, payload any) ([]byte, error)
}

var (
	JSON    Codec = jsonCodec{}
	MsgPack Codec = msgpackCodec{}
)

// CodecByName falls back to JSON for anything it doesn't know.
func CodecByName(name string) Codec {
	if name == MsgPack.Name() {
		return MsgPack
	}
	return JSON
}

func Encode(t string, payload any) ([]byte, error) {
	return JSON.Encode(t, payload)
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }
func (jsonCodec) Binary() bool { return false }

func (jsonCodec) Encode(t string, payload any) ([]byte, error) {
	if err := checkOutbound(t, payload); err != nil {
		return nil, err
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var e = Envelope{T: t, P: pb}

	return json.Marshal(e)
}

// msgpack frames reuse the json struct tags so both codecs agree on field
// names.
type msgpackCodec struct{}

type binaryEnvelope struct {
	T string `msgpack:"t"`
	P any    `msgpack:"p"`
}

type rawBinaryEnvelope struct {
	T string             `msgpack:"t"`
	P msgpack.RawMessage `msgpack:"p"`
}

func (msgpackCodec) Name() string { return "msgpack" }
func (msgpackCodec) Binary() bool { return true }

func (msgpackCodec) Encode(t string, payload any) ([]byte, error) {
	if err := checkOutbound(t, payload); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(binaryEnvelope{T: t, P: payload}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func checkOutbound(t string, payload any) error {
	if t == "" {
		return fmt.Errorf("trying to encode envelope type nil")
	}
	if payload == nil {
		return fmt.Errorf("trying to encode nil payload")
	}
	return nil
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("Error trying to decode Envelope with byte size 0")
	}
	var e Envelope
	err := json.Unmarshal(b, &e)
	if err != nil {
		return Envelope{}, err
	}
	return e, nil
}

// DecodeBinaryEnvelope reads a msgpack frame. The payload stays encoded
// until DecodePayload.
func DecodeBinaryEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("Error trying to decode binary Envelope with byte size 0")
	}
	var raw rawBinaryEnvelope
	if err := msgpack.Unmarshal(b, &raw); err != nil {
		return Envelope{}, err
	}
	return Envelope{T: raw.T, P: json.RawMessage(raw.P), Binary: true}, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	if env.Binary {
		dec := msgpack.NewDecoder(bytes.NewReader(env.P))
		dec.SetCustomStructTag("json")
		err := dec.Decode(&out)
		return out, err
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
