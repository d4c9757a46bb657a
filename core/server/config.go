package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"2137"`
	// ApiKey is the secret key required to access the API.
	// Empty leaves the read API public.
	ApiKey string `mapstructure:"api_key" default:""`
}
