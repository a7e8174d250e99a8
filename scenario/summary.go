package scenario

import (
	"fmt"
	"strings"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// A ChannelResult holds the verification outcome of one channel.
type ChannelResult struct {
	ChannelID   int
	Pass        int
	Fail        int
	ItemsDriven uint64

	// Latencies is the distribution of per-transaction completion times in
	// cycles.
	Latencies *hdrhistogram.Histogram
}

// A Summary aggregates the per-channel pass/fail counts of one scenario
// run.
type Summary struct {
	Name       string
	Kind       Kind
	State      State
	Cycles     uint64
	PerChannel []ChannelResult
}

// AllPassed returns true if no channel recorded a verification failure.
func (s *Summary) AllPassed() bool {
	for _, r := range s.PerChannel {
		if r.Fail > 0 {
			return false
		}
	}

	return true
}

// TotalPass returns the number of passing transactions across all
// channels.
func (s *Summary) TotalPass() int {
	total := 0
	for _, r := range s.PerChannel {
		total += r.Pass
	}

	return total
}

// TotalFail returns the number of failing transactions across all
// channels.
func (s *Summary) TotalFail() int {
	total := 0
	for _, r := range s.PerChannel {
		total += r.Fail
	}

	return total
}

func (s *Summary) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "scenario %s (%s), %s after %d cycles\n",
		s.Name, s.Kind, s.State, s.Cycles)
	fmt.Fprintf(&sb, "%8s %8s %8s %8s %12s %12s\n",
		"channel", "pass", "fail", "items", "lat-mean", "lat-p99")

	for _, r := range s.PerChannel {
		fmt.Fprintf(&sb, "%8d %8d %8d %8d %12.1f %12d\n",
			r.ChannelID, r.Pass, r.Fail, r.ItemsDriven,
			r.Latencies.Mean(), r.Latencies.ValueAtQuantile(99))
	}

	return sb.String()
}
