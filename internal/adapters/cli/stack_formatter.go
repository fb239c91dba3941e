package cli

import (
	"fmt"
	"strings"

	processingQueries "github.com/andrescamacho/processor-go/internal/application/processing/queries"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// StackFormatter renders a unit's inspect report and process stack as a tree
type StackFormatter struct {
	useColors bool
}

// NewStackFormatter creates a new stack formatter
func NewStackFormatter(useColors bool) *StackFormatter {
	return &StackFormatter{useColors: useColors}
}

// Format renders the unit header followed by one branch per queued process
func (f *StackFormatter) Format(inspect *processingQueries.InspectUnitResponse) string {
	if inspect == nil {
		return "(no unit)"
	}

	var builder strings.Builder
	report := inspect.Report
	fmt.Fprintf(&builder, "%s %s%s%s", report.UnitID, f.statusColor(report.Status), report.Status, f.colorReset())
	if !report.SignalsOn {
		builder.WriteString(" (signals off)")
	}
	if report.OnGround {
		builder.WriteString(" [output on ground]")
	}
	builder.WriteString("\n")

	if report.HasCurrent {
		fmt.Fprintf(&builder, "  %s %s  %s  %d ticks left\n",
			report.DefinitionID, f.progressBar(report.Progress, 20), f.thermalText(report), report.TicksLeft)
	}
	if report.MissingIngredient != "" {
		fmt.Fprintf(&builder, "  missing: %s\n", report.MissingIngredient)
	}
	if report.WasteEnabled {
		fmt.Fprintf(&builder, "  waste: %.0f%%\n", report.WasteLevel*100)
	}

	if len(inspect.Queue) == 0 {
		builder.WriteString("└── (empty stack)\n")
		return builder.String()
	}

	awaiting := make(map[string]bool, len(inspect.Awaiting))
	for _, id := range inspect.Awaiting {
		awaiting[id] = true
	}
	for i, queued := range inspect.Queue {
		linePrefix := "├── "
		if i == len(inspect.Queue)-1 {
			linePrefix = "└── "
		}
		fmt.Fprintf(&builder, "%s%s %s %d/%d%s\n",
			linePrefix,
			f.processIcon(queued, awaiting[queued.ProcessID]),
			queued.DisplayName,
			queued.Progress,
			queued.Duration,
			f.processDetail(queued),
		)
	}
	return builder.String()
}

func (f *StackFormatter) processIcon(queued processingQueries.QueuedProcess, awaiting bool) string {
	switch {
	case awaiting:
		return "[✓]"
	case queued.Missing != "":
		return "[!]"
	case queued.Progress > 0:
		return "[~]"
	default:
		return "[ ]"
	}
}

func (f *StackFormatter) processDetail(queued processingQueries.QueuedProcess) string {
	var parts []string
	if queued.Missing != "" {
		parts = append(parts, "needs "+queued.Missing)
	}
	if queued.RuinFraction > 0 {
		parts = append(parts, fmt.Sprintf("ruin %.0f%%", queued.RuinFraction*100))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func (f *StackFormatter) thermalText(report processing.InspectReport) string {
	if report.Thermal == processing.ThermalNominal {
		return string(report.Thermal)
	}
	color := "\033[31m"
	if report.Thermal == processing.ThermalFreezing {
		color = "\033[36m"
	}
	if !f.useColors {
		color = ""
	}
	return fmt.Sprintf("%s%s ruin %.0f%%%s", color, report.Thermal, report.RuinFraction*100, f.colorReset())
}

func (f *StackFormatter) progressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// statusColor returns the ANSI color code for a processor status
func (f *StackFormatter) statusColor(status processing.ProcessorStatus) string {
	if !f.useColors {
		return ""
	}
	switch status {
	case processing.ProcessorStatusWorking:
		return "\033[32m"
	case processing.ProcessorStatusBlocked:
		return "\033[33m"
	default:
		return "\033[90m"
	}
}

func (f *StackFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}
