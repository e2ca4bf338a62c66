package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pentagrid/pkg/pentagrid"
)

// stdout receives all status output; tests swap it out.
var stdout io.Writer = os.Stdout

var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	// Shape swatches match the default penrose palette.
	colorThick = lipgloss.Color("#e0a458")
	colorThin  = lipgloss.Color("#3f6e8c")
)

var (
	// StyleTitle for headings such as "5-fold multigrid".
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleNumber for counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorTeal)

	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)

	shapeStyles = map[pentagrid.Shape]lipgloss.Style{
		pentagrid.Thick: lipgloss.NewStyle().Foreground(colorThick),
		pentagrid.Thin:  lipgloss.NewStyle().Foreground(colorThin),
	}
)

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render("✓")+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render("✗")+" "+fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render("›")+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+styleValue.Render(value))
}

// printStats prints the tile count and the thick/thin split, each shape in
// its swatch color, followed by whether the result came from the cache.
func printStats(tiles int, shapes map[pentagrid.Shape]int, cached bool) {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d tiles", tiles))}
	for _, s := range []pentagrid.Shape{pentagrid.Thick, pentagrid.Thin} {
		if n := shapes[s]; n > 0 {
			parts = append(parts, shapeStyles[s].Render("■")+StyleDim.Render(fmt.Sprintf(" %d %s", n, s)))
		}
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
