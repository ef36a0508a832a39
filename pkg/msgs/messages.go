// Package msgs defines the wire messages published by a receiver.
package msgs

import (
	"github.com/golang/protobuf/proto"
)

// ReceiverStatus reports the state of a running receiver.
type ReceiverStatus struct {
	Id         string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Engine     string `protobuf:"bytes,2,opt,name=engine,proto3" json:"engine,omitempty"`
	Capacity   uint32 `protobuf:"varint,3,opt,name=capacity,proto3" json:"capacity,omitempty"`
	WriteIndex uint32 `protobuf:"varint,4,opt,name=write_index,json=writeIndex,proto3" json:"write_index,omitempty"`
	Received   uint64 `protobuf:"varint,5,opt,name=received,proto3" json:"received,omitempty"`
	Dropped    uint64 `protobuf:"varint,6,opt,name=dropped,proto3" json:"dropped,omitempty"`
	Fault      string `protobuf:"bytes,7,opt,name=fault,proto3" json:"fault,omitempty"`
}

// Reset implements proto.Message.
func (m *ReceiverStatus) Reset() { *m = ReceiverStatus{} }

// String implements proto.Message.
func (m *ReceiverStatus) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*ReceiverStatus) ProtoMessage() {}

// RingSnapshot carries a copy of the ring storage. The copy is taken
// without synchronizing against the writer, so it may mix bytes from
// adjacent wrap generations.
type RingSnapshot struct {
	Id         string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	WriteIndex uint32 `protobuf:"varint,2,opt,name=write_index,json=writeIndex,proto3" json:"write_index,omitempty"`
	Storage    []byte `protobuf:"bytes,3,opt,name=storage,proto3" json:"storage,omitempty"`
}

// Reset implements proto.Message.
func (m *RingSnapshot) Reset() { *m = RingSnapshot{} }

// String implements proto.Message.
func (m *RingSnapshot) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*RingSnapshot) ProtoMessage() {}

// Marshal encodes a message for publishing.
func Marshal(m proto.Message) ([]byte, error) {
	return proto.Marshal(m)
}

// Unmarshal decodes a received payload into m.
func Unmarshal(payload []byte, m proto.Message) error {
	return proto.Unmarshal(payload, m)
}
