package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/repository"
	"github.com/charmbracelet/lipgloss"
)

// FormatTimelineList renders stored timelines inside a bordered box.
func FormatTimelineList(list []repository.TimelineSummary) string {
	if len(list) == 0 {
		return Dim("No timelines yet. Create one with `crewplan timeline new` or `crewplan timeline import`.") + "\n"
	}

	headers := []string{"ID", "NAME", "SPAN", "MONTHS", "PHASES", "DEPTS", "UPDATED"}
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		span := Dim("--")
		if s.MonthCount > 0 {
			span = s.FirstMonth + " → " + s.LastMonth
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			Bold(s.Name),
			span,
			strconv.Itoa(s.MonthCount),
			strconv.Itoa(s.PhaseCount),
			strconv.Itoa(s.DepartmentCount),
			HumanTimestamp(s.UpdatedAt),
		})
	}
	return RenderBox("Timelines", RenderTable(headers, rows))
}

// FormatTimeline renders the full show view: a phase/department tree with
// each department's parameters, then the crew grid.
func FormatTimeline(t *domain.Timeline) string {
	var b strings.Builder
	b.WriteString(Bold(t.Name) + "  " + TruncID(t.ID) + "\n")
	if t.MonthCount() > 0 {
		b.WriteString(Dim(fmt.Sprintf("%s  (%d months)", MonthSpan(t, 0, t.MonthCount()-1), t.MonthCount())) + "\n")
	}
	b.WriteString("\n")

	if tree := RenderTree(timelineTree(t)); tree != "" {
		b.WriteString(tree + "\n")
	}
	b.WriteString(FormatCrewGrid(t, GridOptions{Selected: -1, Cursor: -1}))
	return RenderBox("Timeline", b.String())
}

// DisplayOrder returns the item order used for display: the stored order
// when it covers everything, otherwise phases with their departments.
func DisplayOrder(t *domain.Timeline) []domain.ItemRef {
	if t.ItemOrderComplete() {
		return t.ItemOrder
	}
	return t.GroupedItemOrder()
}

func timelineTree(t *domain.Timeline) []TreeItem {
	order := DisplayOrder(t)
	items := make([]TreeItem, 0, len(order))
	peak := peakCrew(t)

	for i, ref := range order {
		switch ref.Kind {
		case domain.ItemPhase:
			p := t.Phases[ref.Index]
			items = append(items, TreeItem{Title: p.Name, Detail: MonthSpan(t, p.StartMonth, p.EndMonth)})
		case domain.ItemDepartment:
			d := t.Departments[ref.Index]
			level := 1
			if d.PhaseRef == nil {
				level = 0
			}
			last := i == len(order)-1 || order[i+1].Kind == domain.ItemPhase ||
				t.Departments[order[i+1].Index].PhaseRef == nil
			items = append(items, TreeItem{
				Title:  d.Name,
				Level:  level,
				IsLast: last,
				Muted:  d.MaxCrew == 0,
				Detail: departmentDetail(t, ref.Index, peak),
			})
		}
	}
	return items
}

func departmentDetail(t *domain.Timeline, idx, peak int) string {
	d := t.Departments[idx]
	share := 0.0
	if peak > 0 {
		share = float64(d.MaxCrew) / float64(peak)
	}
	src := domain.CrewDerived
	if idx < len(t.Crew) {
		src = t.Crew[idx].Source
	}
	return fmt.Sprintf("max %d  %s  ramps %d/%d  rate %s  %s  %s",
		d.MaxCrew,
		MonthSpan(t, d.StartMonth, d.EndMonth),
		d.RampUpDuration, d.RampDownDuration,
		FormatRate(d.Rate),
		RenderShare(share, 8),
		SourceBadge(src),
	)
}

func peakCrew(t *domain.Timeline) int {
	peak := 0
	for _, d := range t.Departments {
		peak = max(peak, d.MaxCrew)
	}
	return peak
}

// GridOptions controls editor decorations on the crew grid. Selected and
// Cursor are -1 when unused; Preview, when set, replaces the selected
// department's counts and is marked with PreviewGlyph.
type GridOptions struct {
	Selected     int
	Cursor       int
	Preview      []int
	PreviewGlyph string
}

const cellWidth = 5

// FormatCrewGrid renders phases as bars and departments as per-month crew
// counts, one column per month. Zero months are shown as "·".
func FormatCrewGrid(t *domain.Timeline, opts GridOptions) string {
	labelWidth := len("DEPARTMENT")
	for _, p := range t.Phases {
		labelWidth = max(labelWidth, lipgloss.Width(p.Name)+2)
	}
	for _, d := range t.Departments {
		labelWidth = max(labelWidth, lipgloss.Width(d.Name)+2)
	}

	var b strings.Builder
	b.WriteString(gridHeader(t, labelWidth))

	for _, ref := range DisplayOrder(t) {
		switch ref.Kind {
		case domain.ItemPhase:
			b.WriteString(phaseBar(t, ref.Index, labelWidth))
		case domain.ItemDepartment:
			b.WriteString(crewRow(t, ref.Index, labelWidth, opts))
		}
	}
	return b.String()
}

func gridHeader(t *domain.Timeline, labelWidth int) string {
	var years, months strings.Builder
	years.WriteString(strings.Repeat(" ", labelWidth))
	months.WriteString(StyleHeader.Render(padRight("DEPARTMENT", labelWidth)))

	prevYear := ""
	for _, m := range t.Months {
		abbrev, year := domain.SplitMonthLabel(m)
		if year != prevYear {
			years.WriteString(Dim(padLeft(year, cellWidth)))
			prevYear = year
		} else {
			years.WriteString(strings.Repeat(" ", cellWidth))
		}
		months.WriteString(StyleHeader.Render(padLeft(truncate(abbrev, cellWidth-1), cellWidth)))
	}
	return strings.TrimRight(years.String(), " ") + "\n" + months.String() + "\n"
}

func phaseBar(t *domain.Timeline, idx, labelWidth int) string {
	p := t.Phases[idx]
	style := PhaseStyle(idx)

	var b strings.Builder
	b.WriteString(style.Render(padRight(p.Name, labelWidth)))
	for m := range t.Months {
		if m >= p.StartMonth && m <= p.EndMonth {
			b.WriteString(style.Render(strings.Repeat("━", cellWidth)))
		} else {
			b.WriteString(strings.Repeat(" ", cellWidth))
		}
	}
	return strings.TrimRight(b.String(), " ") + "\n"
}

func crewRow(t *domain.Timeline, idx, labelWidth int, opts GridOptions) string {
	d := t.Departments[idx]
	selected := idx == opts.Selected

	var counts []int
	if idx < len(t.Crew) {
		counts = t.Crew[idx].Counts
	}
	preview := selected && opts.Preview != nil
	if preview {
		counts = opts.Preview
	}

	label := "  " + d.Name
	if selected {
		label = "▸ " + d.Name
	}

	var b strings.Builder
	if selected {
		b.WriteString(StyleSelected.Render(padRight(label, labelWidth)))
	} else {
		b.WriteString(padRight(label, labelWidth))
	}

	for m := range t.Months {
		cell := "·"
		if m < len(counts) && counts[m] != 0 {
			cell = strconv.Itoa(counts[m])
		}
		if preview && m < len(counts) && counts[m] != 0 {
			cell += opts.PreviewGlyph
		}
		if selected && m == opts.Cursor {
			cell = "[" + cell + "]"
		}

		padded := padLeft(cell, cellWidth)
		switch {
		case selected && m == opts.Cursor:
			b.WriteString(StyleYellowBold.Render(padded))
		case cell == "·":
			b.WriteString(Dim(padded))
		case preview:
			b.WriteString(StylePurple.Render(padded))
		default:
			b.WriteString(padded)
		}
	}
	return b.String() + "\n"
}

// FormatDepartmentChange summarizes one department after an edit.
func FormatDepartmentChange(t *domain.Timeline, idx int, rampsAdjusted bool) string {
	d := t.Departments[idx]
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s  %s  ramps %d/%d\n",
		StyleGreen.Render("✔"), Bold(d.Name), MonthSpan(t, d.StartMonth, d.EndMonth),
		d.RampUpDuration, d.RampDownDuration))
	if rampsAdjusted {
		b.WriteString(StyleYellow.Render("  ramps were shortened to keep a full-crew month") + "\n")
	}
	if idx < len(t.Crew) {
		b.WriteString(Dim("  crew ") + formatCounts(t.Crew[idx].Counts) + "\n")
	}
	return b.String()
}

// FormatImportSummary reports what an import created.
func FormatImportSummary(t *domain.Timeline, authoritativeRows int) string {
	return fmt.Sprintf("%s Imported %s  %s\n%s\n",
		StyleGreen.Render("✔"), Bold(t.Name), TruncID(t.ID),
		Dim(fmt.Sprintf("  %d months, %d phases, %d departments (%d with imported crew)",
			t.MonthCount(), len(t.Phases), len(t.Departments), authoritativeRows)))
}

func formatCounts(counts []int) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, " ")
}

func padLeft(s string, w int) string {
	return strings.Repeat(" ", max(0, w-lipgloss.Width(s))) + s
}

func padRight(s string, w int) string {
	return s + strings.Repeat(" ", max(0, w-lipgloss.Width(s)))
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	return string(r[:w])
}
