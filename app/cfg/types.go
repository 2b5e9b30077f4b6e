package cfg

import "time"

type Cfg struct {
	// Storage
	DBPath   string
	FeedsDir string

	// Application configuration
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Outbound fetching
	UserAgent string
	FetchRate float64

	// Logging
	LogFile string
	Debug   bool

	// Application metadata
	Timezone string
	Version  string
}

func (c *Cfg) SchedulerTick() time.Duration {
	return time.Duration(c.SchedulerInterval) * time.Second
}
