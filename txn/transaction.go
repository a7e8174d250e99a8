// Package txn defines the randomized data units that the harness drives
// through the channels, and the factories that build them.
package txn

import "fmt"

// Base is the constant part of every encoded data word.
const Base = uint32(0xC0000000)

// Bounds of the randomized transaction fields.
const (
	MinWords = 4
	MaxWords = 8

	MinDataItemIdle = 0
	MaxDataItemIdle = 2

	MinPacketIdle = 1
	MaxPacketIdle = 10
)

// A Transaction is one randomized packet for one channel. It is immutable
// after construction; completion is marked on a clone, never on the request
// object itself.
type Transaction struct {
	ID        string
	ChannelID int
	PacketID  int

	// Data holds 4 to 8 words. Each word is a deterministic function of
	// (ChannelID, PacketID, index).
	Data []uint32

	// DataItemIdle is the number of idle edges between two data words.
	DataItemIdle int

	// PacketIdle is the number of idle edges after the last data word.
	PacketIdle int

	// ResponseFlag is set on the completion clone once the whole packet has
	// been driven.
	ResponseFlag bool
}

// Word returns the encoded data word at the given index of a packet.
func Word(channelID, packetID, index int) uint32 {
	return Base |
		uint32(channelID)<<24 |
		uint32(packetID&0xFFFF)<<8 |
		uint32(index)
}

// Clone returns a deep copy of the transaction. The data slice is
// duplicated so that the completion clone never aliases the in-flight
// request payload.
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.Data = make([]uint32, len(t.Data))
	copy(c.Data, t.Data)

	return &c
}

// Verify checks that the transaction satisfies the construction
// constraints: the data length bounds and the word encoding. The idle
// fields are not checked, as scenario idle policies may pin them outside
// the randomization defaults.
func (t *Transaction) Verify() error {
	if len(t.Data) < MinWords || len(t.Data) > MaxWords {
		return fmt.Errorf("data length %d out of [%d, %d]",
			len(t.Data), MinWords, MaxWords)
	}

	for i, w := range t.Data {
		if want := Word(t.ChannelID, t.PacketID, i); w != want {
			return fmt.Errorf(
				"word %d is 0x%08X, want 0x%08X", i, w, want)
		}
	}

	return nil
}
