package network

import (
	"bytes"
	"io"
	"testing"
)

func TestPacketRoundTrip(t *testing.T) {
	payload := []byte(`{"kind":"roll_dice"}`)
	framed := EncodePacket(MsgTypeGameAction, payload)

	packet, err := DecodePacket(framed)
	if err != nil {
		t.Fatal(err)
	}
	if packet.MsgID != MsgTypeGameAction {
		t.Errorf("msg id = %d, want %d", packet.MsgID, MsgTypeGameAction)
	}
	if packet.Length != uint16(len(payload)) {
		t.Errorf("length = %d, want %d", packet.Length, len(payload))
	}
	if !bytes.Equal(packet.Data, payload) {
		t.Errorf("payload corrupted: %q", packet.Data)
	}
}

func TestDecodePacket_EmptyPayload(t *testing.T) {
	packet, err := DecodePacket(EncodePacket(MsgTypeHeartbeat, nil))
	if err != nil {
		t.Fatal(err)
	}
	if packet.MsgID != MsgTypeHeartbeat || packet.Length != 0 {
		t.Errorf("decoded %+v", packet)
	}
}

func TestDecodePacket_Truncated(t *testing.T) {
	if _, err := DecodePacket([]byte{0, 1}); err != io.ErrShortBuffer {
		t.Errorf("short header should fail with ErrShortBuffer, got %v", err)
	}

	// Header promises more data than the frame carries.
	framed := EncodePacket(MsgTypeGameAction, []byte("abcdef"))
	if _, err := DecodePacket(framed[:7]); err != io.ErrShortBuffer {
		t.Errorf("truncated body should fail with ErrShortBuffer, got %v", err)
	}
}
