package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/siteprov/siteprov/internal/config"
	"github.com/siteprov/siteprov/internal/inventory"
	"github.com/siteprov/siteprov/internal/provisioning"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorGray  = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	nameStyle    = lipgloss.NewStyle().Foreground(colorGray)
	okStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	failStyle    = lipgloss.NewStyle().Foreground(colorRed)
	dimStyle     = lipgloss.NewStyle().Foreground(colorGray)
)

// printSummary renders what a run provisioned. state may be partially populated.
func printSummary(w io.Writer, spec *config.SiteSpec, state *provisioning.State, runErr error) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("  siteprov: %s", spec.SiteName)))
	fmt.Fprintln(w, dimStyle.Render("  "+strings.Repeat("=", 30)))

	if state != nil {
		printResources(w, state.Resources())
		printDevices(w, state.Devices)
	}

	fmt.Fprintln(w)
	if runErr != nil {
		fmt.Fprintln(w, failStyle.Render("  ✗ completed with errors"))
	} else {
		fmt.Fprintln(w, okStyle.Render("  ✓ site provisioned"))
	}
	fmt.Fprintln(w)
}

func printResources(w io.Writer, resources map[inventory.Kind]provisioning.Counts) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render("  Resources"))
	fmt.Fprintln(w, dimStyle.Render("  "+strings.Repeat("-", 35)))

	for _, kind := range inventory.Kinds() {
		c, ok := resources[kind]
		if !ok || c.Total() == 0 {
			continue
		}
		line := fmt.Sprintf("%d created, %d existing", c.Created, c.Existing)
		if c.Recovered > 0 {
			line += fmt.Sprintf(", %d recovered", c.Recovered)
		}
		if c.Failed > 0 {
			line += ", " + failStyle.Render(fmt.Sprintf("%d failed", c.Failed))
		}
		fmt.Fprintf(w, "  %s  %s\n", nameStyle.Render(fmt.Sprintf("%-20s", kind)), line)
	}
}

func printDevices(w io.Writer, devices []provisioning.DeviceResult) {
	if len(devices) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render("  Devices"))
	fmt.Fprintln(w, dimStyle.Render("  "+strings.Repeat("-", 35)))

	for _, d := range devices {
		name := nameStyle.Render(fmt.Sprintf("%-20s", d.Name))
		switch {
		case d.ID == 0 && d.Err != nil:
			fmt.Fprintf(w, "  %s  %s\n", name, failStyle.Render("not created: "+d.Err.Error()))
		case d.Err != nil:
			fmt.Fprintf(w, "  %s  %s %s\n", name, primaryText(d), failStyle.Render(d.Err.Error()))
		default:
			fmt.Fprintf(w, "  %s  %s\n", name, primaryText(d))
		}
	}
}

func primaryText(d provisioning.DeviceResult) string {
	primary := d.PrimaryIP
	if primary == "" {
		primary = d.PrimaryIP6
	}
	if primary == "" {
		return dimStyle.Render("no address")
	}
	text := okStyle.Render(primary)
	if extra := len(d.Addresses) - 1; extra > 0 {
		text += dimStyle.Render(fmt.Sprintf(" (+%d)", extra))
	}
	return text
}
