// Command syncframe runs a small end-to-end demonstration of the capture
// engine: a driver and a follower captor fed by a reconnecting producer,
// synchronized into frames, traced, and broadcast over WebSocket.
package main

func main() {
	Execute()
}
