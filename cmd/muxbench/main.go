// Muxbench drives randomized multi-channel traffic against a shared
// capacity-limited consumer and verifies the completions.
package main

func main() {
	Execute()
}
