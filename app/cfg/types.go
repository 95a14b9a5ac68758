package cfg

type Cfg struct {
	// Input and output locations
	FeedFile    string
	Workdir     string
	CacheFile   string
	SummaryFile string

	// Fetch behavior
	Timeout      int
	WorkerCount  int
	UserAgent    string
	CarryForward bool

	// Application metadata
	Debug   bool
	Version string
}
