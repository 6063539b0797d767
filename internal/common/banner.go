package common

import (
	"fmt"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner
func PrintBanner(version string) {
	b := banner.New().SetStyle(banner.StyleRound).SetBorderColor(banner.ColorCyan)
	b.PrintTopLine()
	b.PrintCenteredText("pdfdeck")
	b.PrintCenteredText(fmt.Sprintf("PDF to PowerPoint %s", version))
	b.PrintBottomLine()
}
