package txn

import (
	"fmt"
	"math/rand"

	"github.com/sarchlab/muxbench/sim"
)

// A RandomizationError reports that a factory cannot build a transaction
// that satisfies its constraints. It is fatal to the whole scenario: a
// corrupted transaction stream would desynchronize the shared-resource
// model.
type RandomizationError struct {
	ChannelID int
	Reason    string
}

func (e *RandomizationError) Error() string {
	return fmt.Sprintf("channel %d: cannot randomize transaction: %s",
		e.ChannelID, e.Reason)
}

// A Factory builds constrained-random transactions for one channel. The
// packet ID increases monotonically with each built transaction.
type Factory struct {
	channelID    int
	nextPacketID int
	rng          *rand.Rand

	minWords, maxWords int
	fixedIdle          int
	hasFixedIdle       bool
}

// FactoryBuilder builds transaction factories.
type FactoryBuilder struct {
	channelID     int
	startPacketID int
	seed          int64
	minWords      int
	maxWords      int
	fixedIdle     int
	hasFixedIdle  bool
}

// MakeFactoryBuilder returns a builder with the default constraints.
func MakeFactoryBuilder() FactoryBuilder {
	return FactoryBuilder{
		minWords: MinWords,
		maxWords: MaxWords,
	}
}

// WithChannelID sets the channel the factory builds transactions for. The
// caller-supplied ID always takes precedence over the zero default, keeping
// the channels separated.
func (b FactoryBuilder) WithChannelID(id int) FactoryBuilder {
	b.channelID = id
	return b
}

// WithStartPacketID sets the packet ID of the first transaction.
func (b FactoryBuilder) WithStartPacketID(id int) FactoryBuilder {
	b.startPacketID = id
	return b
}

// WithSeed sets the randomization seed.
func (b FactoryBuilder) WithSeed(seed int64) FactoryBuilder {
	b.seed = seed
	return b
}

// WithWordCountRange narrows the number of data words per transaction.
func (b FactoryBuilder) WithWordCountRange(lo, hi int) FactoryBuilder {
	b.minWords = lo
	b.maxWords = hi
	return b
}

// WithFixedIdle overrides the randomized idle fields with a fixed value,
// applied to both the per-word idle and the per-packet idle. Scenario idle
// policies use this to pin the pacing of a whole run.
func (b FactoryBuilder) WithFixedIdle(idle int) FactoryBuilder {
	b.fixedIdle = idle
	b.hasFixedIdle = true
	return b
}

// Build creates the factory.
func (b FactoryBuilder) Build() *Factory {
	return &Factory{
		channelID:    b.channelID,
		nextPacketID: b.startPacketID,
		rng:          rand.New(rand.NewSource(b.seed)),
		minWords:     b.minWords,
		maxWords:     b.maxWords,
		fixedIdle:    b.fixedIdle,
		hasFixedIdle: b.hasFixedIdle,
	}
}

// Next builds the next transaction. The data words are deterministic
// functions of the channel and packet IDs; only the word count and the idle
// pacing draw from the random stream.
func (f *Factory) Next() (*Transaction, error) {
	if f.minWords > f.maxWords ||
		f.minWords < MinWords || f.maxWords > MaxWords {
		return nil, &RandomizationError{
			ChannelID: f.channelID,
			Reason: fmt.Sprintf("word count range [%d, %d] is unsatisfiable",
				f.minWords, f.maxWords),
		}
	}

	n := f.minWords + f.rng.Intn(f.maxWords-f.minWords+1)

	t := &Transaction{
		ID:        sim.GetIDGenerator().Generate(),
		ChannelID: f.channelID,
		PacketID:  f.nextPacketID,
		Data:      make([]uint32, n),
	}

	for i := range t.Data {
		t.Data[i] = Word(t.ChannelID, t.PacketID, i)
	}

	if f.hasFixedIdle {
		t.DataItemIdle = f.fixedIdle
		t.PacketIdle = f.fixedIdle
	} else {
		t.DataItemIdle = MinDataItemIdle +
			f.rng.Intn(MaxDataItemIdle-MinDataItemIdle+1)
		t.PacketIdle = MinPacketIdle +
			f.rng.Intn(MaxPacketIdle-MinPacketIdle+1)
	}

	f.nextPacketID++

	return t, nil
}

// ChannelID returns the channel the factory is bound to.
func (f *Factory) ChannelID() int {
	return f.channelID
}
