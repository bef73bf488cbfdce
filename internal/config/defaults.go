package config

const (
	defaultOutputDir      = "./exports"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultTokenization   = "whitespace"
	defaultTagScheme      = "bio"
	defaultTextGridFormat = "long"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		OutputDir: defaultOutputDir,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
		Export: Export{
			Tokenization:   defaultTokenization,
			TagScheme:      defaultTagScheme,
			TextGridFormat: defaultTextGridFormat,
		},
	}
}
