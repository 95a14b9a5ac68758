package feed

// Descriptor identifies a single feed to fetch. Immutable for the run.
type Descriptor struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Org  string `yaml:"org"` // optional category/organization tag
}

type feedFile struct {
	Feeds []Descriptor `yaml:"feeds"`
}
