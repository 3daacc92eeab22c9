package infra

import (
	"fmt"
)

// ANSI Color Codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// PrintBanner displays the startup banner with the endpoint in use.
// The dashboard itself runs in the alternate screen, so only the one-shot
// tools print this.
func PrintBanner(cfg *Config) {
	c := ColorCyan
	fmt.Println()
	fmt.Printf("%s#########################################################%s\n", c, ColorReset)
	fmt.Printf("%s#  📈 Crypto Prices Dashboard                           #%s\n", c, ColorReset)
	fmt.Printf("%s#  VERSION: %-44s #%s\n", c, cfg.App.Version, ColorReset)
	fmt.Printf("%s#  API:     %-44s #%s\n", c, cfg.API.CoinGecko.BaseURL, ColorReset)
	fmt.Printf("%s#  POLL:    %-44s #%s\n", c, fmt.Sprintf("%ds", cfg.API.CoinGecko.PollIntervalSec), ColorReset)
	fmt.Printf("%s#########################################################%s\n", c, ColorReset)
	fmt.Println()
}
