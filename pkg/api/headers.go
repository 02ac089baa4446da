package api

const (
	// HeaderRunID is the header carrying the run identifier on published
	// events.
	HeaderRunID = "X-Framechain-Run-Id"

	// HeaderSegment is the header carrying the segment index on
	// published events.
	HeaderSegment = "X-Framechain-Segment"

	// HeaderType is the header carrying the event type on published
	// events.
	HeaderType = "X-Framechain-Type"

	// HeaderStatus is the header carrying the run or segment status on
	// published events.
	HeaderStatus = "X-Framechain-Status"
)
