package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cargodead/pkg/deps"
	"github.com/matzehuels/cargodead/pkg/errors"
	"github.com/matzehuels/cargodead/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Printer
// =============================================================================

// printer writes styled report lines to a command's output.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

// success prints a success message.
func (p *printer) success(format string, args ...any) {
	p.println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// error prints an error message.
func (p *printer) error(format string, args ...any) {
	p.println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

// warning prints a warning message.
func (p *printer) warning(format string, args ...any) {
	p.println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// info prints an info/status message.
func (p *printer) info(format string, args ...any) {
	p.println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// detail prints a detail line (indented).
func (p *printer) detail(format string, args ...any) {
	p.println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a file output line.
func (p *printer) file(path string) {
	p.println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// nextStep prints a suggested next command.
func (p *printer) nextStep(description, cmd string) {
	p.println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// newline prints an empty line.
func (p *printer) newline() {
	p.println("")
}

// =============================================================================
// Analysis Report
// =============================================================================

// packageResult prints the findings for one package: a heading, one line
// per unused dependency and one line per rewritten manifest.
func (p *printer) packageResult(pr *pipeline.PackageResult) {
	p.newline()
	p.println(StyleTitle.Render("Analyzing package: " + pr.Package.Name))
	if pr.Unused.Empty() {
		p.detail("no unused dependencies")
	}
	for _, k := range deps.AllKinds {
		for _, name := range pr.Unused[k] {
			p.warning("Unused %s in %s: %s", k.Label(), pr.Package.Name, name)
		}
	}
	if pr.Rewritten {
		p.success("Updated %s", pr.Package.ManifestPath)
	}
}

// summary prints the totals of a run.
func (p *printer) summary(result *pipeline.Result, mode pipeline.Mode) {
	p.newline()
	unused := result.Unused()
	switch {
	case unused == 0:
		p.success("No unused dependencies in %s", plural(len(result.Packages), "package"))
	case mode == pipeline.ModeFix:
		p.success("Removed %s from %s",
			StyleNumber.Render(plural(result.Removed(), "dependency")),
			plural(result.Rewritten(), "manifest"))
	default:
		p.info("Found %s in %s",
			StyleNumber.Render(plural(unused, "unused dependency")),
			plural(len(result.Packages), "package"))
		p.nextStep("Remove them with", "cargo dead fix")
	}
}

// plural formats n with a noun, pluralizing "dependency" and regular nouns.
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	if len(noun) > 1 && noun[len(noun)-1] == 'y' {
		return fmt.Sprintf("%d %sies", n, noun[:len(noun)-1])
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// PrintError prints err to w the way commands report failures. Coded
// errors get a second line naming the code.
func PrintError(w io.Writer, err error) {
	p := newPrinter(w)
	p.error("%s", errors.UserMessage(err))
	if code := errors.GetCode(err); code != "" {
		p.detail("error code: %s", code)
	}
}
