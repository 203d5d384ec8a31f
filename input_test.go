package butterfly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseBytes(raw []byte) (*BytesPacket, error) {
	return NewBytesPacket(raw), nil
}

func TestPacketsSerializeDeserializeRoundTrip(t *testing.T) {
	input := NewPackets([]*BytesPacket{
		NewBytesPacket([]byte("abc")),
		NewBytesPacket([]byte("")),
		NewBytesPacket([]byte("xyz123")),
	})

	data := input.Serialize()
	roundTripped, err := Deserialize(data, parseBytes)
	require.NoError(t, err)

	require.Equal(t, input.Len(), roundTripped.Len())
	for i := 0; i < input.Len(); i++ {
		assert.Equal(t, (*input.At(i)).Data, (*roundTripped.At(i)).Data)
	}
}

func TestPacketsNameIsDeterministic(t *testing.T) {
	a := NewPackets([]*BytesPacket{NewBytesPacket([]byte("same"))})
	b := NewPackets([]*BytesPacket{NewBytesPacket([]byte("same"))})
	assert.Equal(t, a.Name(), b.Name())
	assert.Len(t, a.Name(), 16)
}

func TestDeserializeRejectsTruncatedCount(t *testing.T) {
	_, err := Deserialize([]byte{0, 0}, parseBytes)
	assert.Error(t, err)
}

func TestDeserializeRejectsTrailingBytes(t *testing.T) {
	input := NewPackets([]*BytesPacket{NewBytesPacket([]byte("a"))})
	data := append(input.Serialize(), 0xFF)
	_, err := Deserialize(data, parseBytes)
	assert.Error(t, err)
}

func TestDeserializeRejectsTruncatedBody(t *testing.T) {
	data := []byte{0, 0, 0, 1, 0, 0, 0, 5, 'a', 'b'}
	_, err := Deserialize(data, parseBytes)
	assert.Error(t, err)
}
