package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool
	UseConsoleWriter bool // human readable output instead of json lines
}

// LogFile implements a file based logger with one rolling file per level group.
type LogFile struct {
	Enabled bool
	Path    string

	AccessLog        string `mapstructure:"access" toml:"access"`
	AccessMaxSize    int
	AccessMaxBackups int
	AccessMaxAge     int

	ErrorLog        string `mapstructure:"error" toml:"error"`
	ErrorMaxSize    int
	ErrorMaxBackups int
	ErrorMaxAge     int

	InfoLog        string `mapstructure:"info" toml:"info"`
	InfoMaxSize    int
	InfoMaxBackups int
	InfoMaxAge     int

	TraceLog        string `mapstructure:"trace" toml:"trace"`
	TraceMaxSize    int
	TraceMaxBackups int
	TraceMaxAge     int

	WarnLog        string `mapstructure:"warn" toml:"warn"`
	WarnMaxSize    int
	WarnMaxBackups int
	WarnMaxAge     int
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole writes the http access log to stdout.
	// Does not overrule Console.Enabled.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	Console Console
	File    LogFile
}
