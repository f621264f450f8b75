package config

// Config is the root configuration for a tvheap node.
type Config struct {
	Logger LoggerConfig `yaml:"logger"`
	Server ServerConfig `yaml:"http-server"`
	AM     AMConfig     `yaml:"access-method"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// AMConfig tunes the delegated members of the access method.
type AMConfig struct {
	ScanBatchSize  int `yaml:"scan_batch_size"`
	ToastThreshold int `yaml:"toast_threshold"`
}

// Default returns a baseline development config.
func Default() Config {
	return Config{
		Logger: LoggerConfig{
			Level: "DEBUG",
			JSON:  false,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		AM: AMConfig{
			ScanBatchSize:  64,
			ToastThreshold: 2032,
		},
	}
}
