// internal/platform/ui/ascii.go
package ui

// Banner is the startup header printed unless silent mode is on.
const Banner = `
╔════════════════════════════════════════════════════════════╗
║                                                            ║
║    ██████╗ ██████╗  ██████╗ ██████╗ ███████╗██╗  ██╗       ║
║    ██╔══██╗██╔══██╗██╔═══██╗██╔══██╗██╔════╝╚██╗██╔╝       ║
║    ██████╔╝██████╔╝██║   ██║██████╔╝█████╗   ╚███╔╝        ║
║    ██╔═══╝ ██╔══██╗██║   ██║██╔══██╗██╔══╝   ██╔██╗        ║
║    ██║     ██║  ██║╚██████╔╝██████╔╝███████╗██╔╝ ██╗       ║
║    ╚═╝     ╚═╝  ╚═╝ ╚═════╝ ╚═════╝ ╚══════╝╚═╝  ╚═╝       ║
║                                                            ║
║              Fast HTTP/HTTPS Probing Engine                ║
║                                                            ║
╚════════════════════════════════════════════════════════════╝
`

// BannerMinimal is used on terminals narrower than 80 columns.
const BannerMinimal = `
╔═══════════════════════════════════════╗
║                                       ║
║    PROBEX                             ║
║    HTTP Probing Engine                ║
║    ════════════════════               ║
║                                       ║
╚═══════════════════════════════════════╝
`

// GetBanner returns the banner fitting the terminal width.
func GetBanner(terminalWidth int) string {
	if terminalWidth < 80 {
		return BannerMinimal
	}
	return Banner
}
