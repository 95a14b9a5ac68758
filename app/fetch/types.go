package fetch

// Status classifies the outcome of one retrieval attempt.
type Status int

const (
	StatusUnchanged Status = iota
	StatusFetched
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusFetched:
		return "fetched"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of fetching one feed. Exactly one of the variants
// applies: Unchanged carries at most a reissued validator, Fetched carries
// the payload with its validator and size, Failed carries the error.
type Result struct {
	Status  Status
	Payload []byte
	ETag    string
	Size    int64
	Err     error
}
