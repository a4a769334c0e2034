package config

type AppConfig struct {
	DebugMode      bool
	TCPConfig      *TCPConfig
	SearchConfig   *SearchConfig
	HTTPConfig     *HTTPConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	JwtConfig      *JwtConfig
	BackgroundCfg  *BackgroundConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      getBoolEnv("DEBUG_MODE", false),
		TCPConfig:      NewTCPConfig(),
		SearchConfig:   NewSearchConfig(),
		HTTPConfig:     NewHTTPConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		JwtConfig:      NewJwtConfig(),
		BackgroundCfg:  NewBackgroundConfig(),
	}
}
