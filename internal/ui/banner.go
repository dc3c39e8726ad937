package ui

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

const bannerText = `
██████╗ ██████╗       ███████╗ █████╗ ██╗      █████╗ ██████╗ ██╗███████╗███████╗
██╔══██╗██╔══██╗      ██╔════╝██╔══██╗██║     ██╔══██╗██╔══██╗██║██╔════╝██╔════╝
██████╔╝██████╔╝█████╗███████╗███████║██║     ███████║██████╔╝██║█████╗  ███████╗
██╔══██╗██╔══██╗╚════╝╚════██║██╔══██║██║     ██╔══██║██╔══██╗██║██╔══╝  ╚════██║
██████╔╝██║  ██║      ███████║██║  ██║███████╗██║  ██║██║  ██║██║███████╗███████║
╚═════╝ ╚═╝  ╚═╝      ╚══════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝╚══════╝╚══════╝
 @fr4nk3nst1ner
`

// ColorizeText fades text between two random colors
func ColorizeText(text string) string {
	random := rand.New(rand.NewSource(time.Now().UnixNano()))
	randomRGB := func() pterm.RGB {
		return pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))
	}
	start, end := randomRGB(), randomRGB()

	chars := strings.Split(text, "")
	half := max(1, len(chars)/2)

	var b strings.Builder
	for i, ch := range chars {
		b.WriteString(start.Fade(0, float32(len(chars)), float32(i%half), end).Sprint(ch))
	}
	return b.String()
}

// PrintBanner writes the banner to w unless silenced
func PrintBanner(w io.Writer, silence bool) {
	if silence {
		return
	}
	fmt.Fprintln(w, ColorizeText(bannerText))
}
