// internal/platform/ui/presenter.go
package ui

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
)

// Presenter prints the run lifecycle to the terminal: banner, start
// line, closing summary. A silent presenter prints nothing, keeping
// stdout clean for the result stream.
type Presenter struct {
	silent  bool
	version string
}

// NewPresenter creates a presenter. Silent mode suppresses everything.
func NewPresenter(version string, silent bool) *Presenter {
	return &Presenter{silent: silent, version: version}
}

// Start prints the banner and the probing start line.
func (p *Presenter) Start(candidates, workers int) {
	if p.silent {
		return
	}

	width := pterm.GetTerminalWidth()
	pterm.Println(pterm.Cyan(GetBanner(width)))
	pterm.Println(pterm.Gray("  version " + p.version))
	pterm.Println()
	pterm.Println(pterm.Blue(fmt.Sprintf("[+] Probing %d candidate URLs with %d workers...", candidates, workers)))
}

// Finish prints the closing summary counters.
func (p *Presenter) Finish(attempted, succeeded int64, elapsed time.Duration) {
	if p.silent {
		return
	}

	pterm.Println(pterm.Green(fmt.Sprintf("[+] Completed in %.2fs - %d/%d targets responded",
		elapsed.Seconds(), succeeded, attempted)))
}

// Interrupted prints the cancellation notice.
func (p *Presenter) Interrupted() {
	if p.silent {
		return
	}

	pterm.Println(pterm.Yellow("[!] Run interrupted, abandoning in-flight probes"))
}
