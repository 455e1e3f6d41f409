package config

import (
	"fmt"

	"github.com/Ratepiratepi/webfleet-gps-api/pkg/keygen"
)

const HelpMessage = `
Webfleet GPS API server.

Environment variables:
  API_PORT                     HTTP listen port (default 8080)
  API_KEY                      API key; generated and logged when empty
  CACHE_DURATION               refresh interval in seconds (default 60)
  DATA_DIR                     snapshot output directory (default /app/data)
  WEBFLEET_USERNAME            portal username (required)
  WEBFLEET_PASSWORD            portal password (required)
  WEBFLEET_ACCOUNT             portal account name
  WEBFLEET_URL                 portal landing URL
  WEBFLEET_NAVIGATION_TIMEOUT  login navigation timeout (default 60s)
  WEBFLEET_RELOAD_TIMEOUT      page reload timeout (default 30s)
  WEBFLEET_RETRY_DELAY         backoff delay between sessions (default 30s)
  LOG_LEVEL                    DEBUG, INFO, WARN or ERROR (default INFO)
`

func PrintHelp() {
	fmt.Print(HelpMessage)
}

// PrintConfig prints startup configuration, masking the API key.
func PrintConfig(cfg *Config) {
	fmt.Printf("port:             %s\n", cfg.API.Port)
	fmt.Printf("refresh interval: %s\n", cfg.Webfleet.RefreshInterval)
	fmt.Printf("data dir:         %s\n", cfg.API.DataDir)
	fmt.Printf("portal url:       %s\n", cfg.Webfleet.URL)
	fmt.Printf("api key:          %s\n", keygen.Truncate(cfg.API.Key))
}
