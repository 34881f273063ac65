package stream

// Consumer receives text produced by a Source. Deliver returns whether
// the consumer is ready for more data immediately; returning false puts
// the source back into buffering mode until the consumer pulls again.
//
// Deliver is called with the source locked. It must not retain p after
// returning and must not write to the same source.
type Consumer interface {
	Deliver(p []byte) bool
}

// Source produces text on demand.
type Source interface {
	// Pull signals that c wants data. Buffered text is handed over
	// immediately; otherwise c is remembered as a pending reader and
	// receives the next write directly.
	Pull(c Consumer)

	// Cancel withdraws a pending read registered by c.
	Cancel(c Consumer)
}
