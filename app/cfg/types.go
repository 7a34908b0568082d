package cfg

// Cfg holds process configuration resolved from environment variables and
// command-line flags. It is constructed once at startup and passed into the
// stage entry functions; nothing reads the environment after Load.
type Cfg struct {
	// NASA APOD API
	APIKey string

	// Supabase store (raw-SQL RPC backend)
	SupabaseURL string
	SupabaseKey string

	// Direct Postgres store (parameterized backend, takes precedence)
	DatabaseURL string

	// Pipeline layout
	DataDir    string
	ConfigFile string

	// Status server
	Port         string
	APIAccessKey string

	// Application metadata
	UserAgent string
	Version   string
}
