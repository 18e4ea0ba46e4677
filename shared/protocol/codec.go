package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Subprotocolos WebSocket aceitos pelo servidor.
const (
	SubprotocolJSON = "studyio.json"
	SubprotocolWire = "studyio.proto"
)

// Codec serializa mensagens para um frame WebSocket.
type Codec interface {
	Name() string
	// Binary indica se os frames são binários (senão, texto).
	Binary() bool
	Encode(msg Message) ([]byte, error)
	Decode(data []byte) (Message, error)
}

// CodecFor escolhe o codec pelo subprotocolo negociado. JSON é o padrão (ponte do navegador).
func CodecFor(subprotocol string) Codec {
	if subprotocol == SubprotocolWire {
		return WireCodec{}
	}
	return JSONCodec{}
}

var ErrUnknownMessage = errors.New("tipo de mensagem desconhecido")

// ---------- JSON ----------

// JSONCodec usa o formato da ponte WebSocket do navegador.
// Control não tem campo "type"; as mensagens do servidor têm.
type JSONCodec struct{}

func (JSONCodec) Name() string { return SubprotocolJSON }
func (JSONCodec) Binary() bool { return false }

type jsonEnvelope struct {
	Type     string           `json:"type,omitempty"`
	PlayerID *int             `json:"player_id,omitempty"`
	Players  map[int]Position `json:"players,omitempty"`

	Control
}

func (JSONCodec) Encode(msg Message) ([]byte, error) {
	switch m := msg.(type) {
	case Control:
		return json.Marshal(m)
	case Welcome:
		id := m.PlayerID
		return json.Marshal(jsonServerMessage{Type: TypeWelcome.String(), PlayerID: &id})
	case Positions:
		players := m.Players
		if players == nil {
			players = map[int]Position{}
		}
		return json.Marshal(jsonPositions{Type: TypePositions.String(), Players: players})
	case Disconnect:
		id := m.PlayerID
		return json.Marshal(jsonServerMessage{Type: TypeDisconnect.String(), PlayerID: &id})
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
}

// Saída das mensagens do servidor; não carregam os campos de Control.
type jsonServerMessage struct {
	Type     string `json:"type"`
	PlayerID *int   `json:"player_id"`
}

type jsonPositions struct {
	Type    string           `json:"type"`
	Players map[int]Position `json:"players"`
}

func (JSONCodec) Decode(data []byte) (Message, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("json inválido: %w", err)
	}

	switch env.Type {
	case "":
		return env.Control, nil
	case TypeWelcome.String():
		if env.PlayerID == nil {
			return nil, fmt.Errorf("welcome sem player_id")
		}
		return Welcome{PlayerID: *env.PlayerID}, nil
	case TypePositions.String():
		if env.Players == nil {
			env.Players = map[int]Position{}
		}
		return Positions{Players: env.Players}, nil
	case TypeDisconnect.String():
		if env.PlayerID == nil {
			return nil, fmt.Errorf("disconnect sem player_id")
		}
		return Disconnect{PlayerID: *env.PlayerID}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
}

// ---------- Protobuf wire ----------

// WireCodec usa o formato binário do protobuf: envelope {1: tipo, 2: payload}.
type WireCodec struct{}

func (WireCodec) Name() string { return SubprotocolWire }
func (WireCodec) Binary() bool { return true }

const (
	envelopeType    protowire.Number = 1
	envelopePayload protowire.Number = 2
)

func (WireCodec) Encode(msg Message) ([]byte, error) {
	var payload []byte
	switch m := msg.(type) {
	case Control:
		payload = appendBool(payload, 1, m.Up)
		payload = appendBool(payload, 2, m.Down)
		payload = appendBool(payload, 3, m.Left)
		payload = appendBool(payload, 4, m.Right)
		payload = appendFloat(payload, 5, m.Angle)
	case Welcome:
		payload = appendInt(payload, 1, m.PlayerID)
	case Disconnect:
		payload = appendInt(payload, 1, m.PlayerID)
	case Positions:
		for id, pos := range m.Players {
			var sub []byte
			sub = appendInt(sub, 1, id)
			sub = appendFloat(sub, 2, pos.X)
			sub = appendFloat(sub, 3, pos.Y)
			sub = appendFloat(sub, 4, pos.Angle)
			payload = protowire.AppendTag(payload, 1, protowire.BytesType)
			payload = protowire.AppendBytes(payload, sub)
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
	}

	var b []byte
	b = protowire.AppendTag(b, envelopeType, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(msg.Type()))
	b = protowire.AppendTag(b, envelopePayload, protowire.BytesType)
	b = protowire.AppendBytes(b, payload)
	return b, nil
}

func (WireCodec) Decode(data []byte) (Message, error) {
	var typ Type
	var payload []byte

	err := walkFields(data, func(num protowire.Number, wt protowire.Type, b []byte) (int, error) {
		switch {
		case num == envelopeType && wt == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			typ = Type(v)
			return n, nil
		case num == envelopePayload && wt == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			payload = v
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, wt, b), nil
	})
	if err != nil {
		return nil, fmt.Errorf("envelope inválido: %w", err)
	}

	switch typ {
	case TypeControl:
		var c Control
		err = walkFields(payload, func(num protowire.Number, wt protowire.Type, b []byte) (int, error) {
			if wt == protowire.VarintType && num >= 1 && num <= 4 {
				v, n := protowire.ConsumeVarint(b)
				flag := protowire.DecodeBool(v)
				switch num {
				case 1:
					c.Up = flag
				case 2:
					c.Down = flag
				case 3:
					c.Left = flag
				case 4:
					c.Right = flag
				}
				return n, nil
			}
			if num == 5 && wt == protowire.Fixed32Type {
				v, n := protowire.ConsumeFixed32(b)
				c.Angle = math.Float32frombits(v)
				return n, nil
			}
			return protowire.ConsumeFieldValue(num, wt, b), nil
		})
		return c, err
	case TypeWelcome, TypeDisconnect:
		id, err := decodePlayerID(payload)
		if err != nil {
			return nil, err
		}
		if typ == TypeWelcome {
			return Welcome{PlayerID: id}, nil
		}
		return Disconnect{PlayerID: id}, nil
	case TypePositions:
		p := Positions{Players: map[int]Position{}}
		err = walkFields(payload, func(num protowire.Number, wt protowire.Type, b []byte) (int, error) {
			if num != 1 || wt != protowire.BytesType {
				return protowire.ConsumeFieldValue(num, wt, b), nil
			}
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			id, pos, err := decodePlayerPosition(sub)
			if err != nil {
				return 0, err
			}
			p.Players[id] = pos
			return n, nil
		})
		return p, err
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMessage, typ)
}

// walkFields percorre os campos de uma mensagem; fn consome o valor e retorna os bytes lidos.
func walkFields(b []byte, fn func(num protowire.Number, wt protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, wt, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := fn(num, wt, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}

func decodePlayerID(payload []byte) (int, error) {
	var id int
	err := walkFields(payload, func(num protowire.Number, wt protowire.Type, b []byte) (int, error) {
		if num == 1 && wt == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			id = int(int64(v))
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, wt, b), nil
	})
	return id, err
}

func decodePlayerPosition(sub []byte) (int, Position, error) {
	var id int
	var pos Position
	err := walkFields(sub, func(num protowire.Number, wt protowire.Type, b []byte) (int, error) {
		if num == 1 && wt == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			id = int(int64(v))
			return n, nil
		}
		if wt == protowire.Fixed32Type && num >= 2 && num <= 4 {
			v, n := protowire.ConsumeFixed32(b)
			f := math.Float32frombits(v)
			switch num {
			case 2:
				pos.X = f
			case 3:
				pos.Y = f
			case 4:
				pos.Angle = f
			}
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, wt, b), nil
	})
	return id, pos, err
}

// Campos com valor zero não são serializados (proto3).
func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendInt(b []byte, num protowire.Number, v int) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

func appendFloat(b []byte, num protowire.Number, v float32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}
