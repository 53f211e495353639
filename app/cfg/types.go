package cfg

type Cfg struct {
	// Provider credentials
	NewsAPIKey  string
	GuardianKey string
	NYTimesKey  string

	// Application configuration
	DBPath       string
	Port         string
	TaxonomyFile string
	FetchTimeout int
	WorkerCount  int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
