package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	TopicsFile         string
	Port               string
	APIAccessKey       string
	MaxRequestsPerDay  int
	FetchIntervalHours int
	FetchDelay         int
	FetchTimeout       int

	// Scraping session
	LinkedInCookie string
	UserAgent      string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
