package config

type HTTPConfig struct {
	Enabled     bool
	Port        int
	ServiceName string
}

func NewHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		Enabled:     getBoolEnv("HTTP_ENABLED", true),
		Port:        getIntEnv("HTTP_PORT", 8082),
		ServiceName: getEnv("SERVICE_NAME", "hashsearch-coordinator"),
	}
}
