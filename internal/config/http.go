package config

type HTTP struct {
	Port    uint32 `env:"HTTP_PORT" envDefault:"5248"`
	Swagger bool   `env:"HTTP_SWAGGER" envDefault:"true"`

	// CorsAllowedOrigins defaults to the local frontend dev servers.
	CorsAllowedOrigins []string `env:"HTTP_CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:*,https://localhost:*"`
}
