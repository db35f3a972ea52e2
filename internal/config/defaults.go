package config

const (
	defaultConfigPath            = "~/.config/watchlist/config.toml"
	defaultDataDir               = "~/.local/share/watchlist"
	defaultLogDir                = "~/.local/share/watchlist/logs"
	defaultBind                  = "127.0.0.1:7488"
	defaultReadTimeoutSeconds    = 15
	defaultWriteTimeoutSeconds   = 30
	defaultIdleTimeoutSeconds    = 60
	defaultStoreBackend          = BackendSQLite
	defaultTMDBBaseURL           = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL      = "https://image.tmdb.org/t/p/w92"
	defaultTMDBLanguage          = "en-US"
	defaultTMDBTimeoutSeconds    = 10
	defaultAPIURL                = "http://127.0.0.1:7488"
	defaultPollIntervalSeconds   = 2.0
	defaultRequestTimeoutSeconds = 15
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Document store backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Server: Server{
			Bind:                defaultBind,
			ReadTimeoutSeconds:  defaultReadTimeoutSeconds,
			WriteTimeoutSeconds: defaultWriteTimeoutSeconds,
			IdleTimeoutSeconds:  defaultIdleTimeoutSeconds,
		},
		Store: Store{
			Backend:    defaultStoreBackend,
			IndexLists: true,
		},
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			ImageBaseURL:   defaultTMDBImageBaseURL,
			Language:       defaultTMDBLanguage,
			TimeoutSeconds: defaultTMDBTimeoutSeconds,
		},
		Client: Client{
			APIURL:                defaultAPIURL,
			PollIntervalSeconds:   defaultPollIntervalSeconds,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
