package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestCodecFor(t *testing.T) {
	assert.IsType(t, WireCodec{}, CodecFor(SubprotocolWire))
	assert.IsType(t, JSONCodec{}, CodecFor(SubprotocolJSON))
	assert.IsType(t, JSONCodec{}, CodecFor(""))
	assert.True(t, CodecFor(SubprotocolWire).Binary())
	assert.False(t, CodecFor("").Binary())
}

func TestJSONBrowserFormat(t *testing.T) {
	c := JSONCodec{}

	data, err := c.Encode(Welcome{PlayerID: 42})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"welcome","player_id":42}`, string(data))

	data, err = c.Encode(Welcome{PlayerID: 0})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"welcome","player_id":0}`, string(data))

	data, err = c.Encode(Disconnect{PlayerID: 7})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"disconnect","player_id":7}`, string(data))

	data, err = c.Encode(Positions{Players: map[int]Position{3: {X: 100, Y: 110, Angle: 1.5}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"positions","players":{"3":{"x":100,"y":110,"angle":1.5}}}`, string(data))

	data, err = c.Encode(Control{Up: true, Angle: 0.5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"up":true,"down":false,"left":false,"right":false,"angle":0.5}`, string(data))
}

func TestJSONDecode(t *testing.T) {
	c := JSONCodec{}
	tests := []struct {
		in   string
		want Message
	}{
		{`{"up":true,"left":true,"angle":2}`, Control{Up: true, Left: true, Angle: 2}},
		{`{"type":"welcome","player_id":5}`, Welcome{PlayerID: 5}},
		{`{"type":"disconnect","player_id":9}`, Disconnect{PlayerID: 9}},
		{`{"type":"positions","players":{"1":{"x":3,"y":4}}}`, Positions{Players: map[int]Position{1: {X: 3, Y: 4}}}},
		{`{"type":"positions"}`, Positions{Players: map[int]Position{}}},
	}
	for _, tt := range tests {
		got, err := c.Decode([]byte(tt.in))
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestJSONDecodeErrors(t *testing.T) {
	c := JSONCodec{}
	for _, in := range []string{
		`nao e json`,
		`{"type":"welcome"}`,
		`{"type":"disconnect"}`,
		`{"type":"teleporte"}`,
	} {
		_, err := c.Decode([]byte(in))
		assert.Error(t, err, in)
	}

	_, err := c.Decode([]byte(`{"type":"teleporte"}`))
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func TestRoundTrip(t *testing.T) {
	msgs := []Message{
		Control{},
		Control{Up: true, Down: true, Left: true, Right: true, Angle: -3.1},
		Welcome{PlayerID: 999},
		Disconnect{PlayerID: 1},
		Positions{Players: map[int]Position{}},
		Positions{Players: map[int]Position{0: {}, 12: {X: -5, Y: 7.25, Angle: 0.1}}},
	}
	for _, codec := range []Codec{JSONCodec{}, WireCodec{}} {
		for _, msg := range msgs {
			data, err := codec.Encode(msg)
			require.NoError(t, err)
			got, err := codec.Decode(data)
			require.NoError(t, err, "%s %#v", codec.Name(), msg)
			assert.Equal(t, msg, got, codec.Name())
		}
	}
}

func TestWireSkipsUnknownFields(t *testing.T) {
	data, err := WireCodec{}.Encode(Welcome{PlayerID: 3})
	require.NoError(t, err)

	// campo 9 desconhecido no envelope
	data = protowire.AppendTag(data, 9, protowire.VarintType)
	data = protowire.AppendVarint(data, 77)

	got, err := WireCodec{}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, Welcome{PlayerID: 3}, got)
}

func TestWireDecodeErrors(t *testing.T) {
	_, err := WireCodec{}.Decode([]byte{0xff})
	assert.Error(t, err)

	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 99)
	_, err = WireCodec{}.Decode(b)
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

type bogus struct{}

func (bogus) Type() Type { return Type(50) }

func TestEncodeUnknown(t *testing.T) {
	_, err := JSONCodec{}.Encode(bogus{})
	assert.ErrorIs(t, err, ErrUnknownMessage)
	_, err = WireCodec{}.Encode(bogus{})
	assert.ErrorIs(t, err, ErrUnknownMessage)
}
