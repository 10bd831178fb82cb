// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/katalvlaran/geoinv/inversion"
	"github.com/katalvlaran/geoinv/store"
)

// Theme holds the colours of the terminal output.
type Theme struct {
	Title   lipgloss.Color
	Success lipgloss.Color
	Warn    lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

var defaultTheme = Theme{
	Title:   lipgloss.Color("#5FAFD7"),
	Success: lipgloss.Color("#00D787"),
	Warn:    lipgloss.Color("#FFAF00"),
	Error:   lipgloss.Color("#FF005F"),
	Hint:    lipgloss.Color("#6C6C6C"),
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Title).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint)
}

func (t Theme) stateStyle(s inversion.State) lipgloss.Style {
	switch s {
	case inversion.StateConverged:
		return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	case inversion.StateFailed:
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(t.Warn).Bold(true)
	}
}

// renderResult writes the summary block and the model table of res.
func renderResult(w io.Writer, name string, res *inversion.Result) {
	th := defaultTheme
	label := th.hintStyle().Width(14)
	unit := res.Quantity.Unit()
	q := res.Quality

	lines := []string{
		th.titleStyle().Render(name),
		label.Render("state") + th.stateStyle(res.State).Render(res.State.String()),
		label.Render("iterations") + strconv.Itoa(res.Iterations),
		label.Render("final rms") + fmt.Sprintf("%.5f", res.FinalRMS),
		label.Render("rms error") + formatRMSError(res),
		label.Render("roughness") + fmt.Sprintf("%.4f", q.ModelRoughness),
		label.Render("doi") + fmt.Sprintf("%.2f m", q.DepthOfInvestigation),
		label.Render("damping") + fmt.Sprintf("%g", res.Damping),
		label.Render("runtime") + res.Runtime.String(),
	}
	if len(res.Coverage) == len(res.Model.Values) {
		lines = append(lines, label.Render("coverage")+fmt.Sprintf("%d of %d cells below %.0f %%",
			poorlyCovered(res.Coverage), len(res.Coverage), lowCoverage*100))
	}
	if n := len(res.Rejected); n > 0 {
		lines = append(lines, label.Render("rejected")+fmt.Sprintf("%d readings", n))
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, th.hintStyle().Render("model ("+unit+"), rows by depth, poorly covered cells dimmed"))
	fmt.Fprintln(w, modelTable(res.Model, res.Coverage))
}

// lowCoverage is the relative coverage below which a cell is resolved by
// regularization rather than data.
const lowCoverage = 0.05

func poorlyCovered(coverage []float64) int {
	var n int
	for _, c := range coverage {
		if c < lowCoverage {
			n++
		}
	}

	return n
}

func formatRMSError(res *inversion.Result) string {
	if res.Quantity.Logarithmic() {
		return fmt.Sprintf("%.2f %%", res.Quality.RMSError)
	}

	return fmt.Sprintf("%.4f %s", res.Quality.RMSError, res.Quantity.Unit())
}

// modelTable renders one row per layer labelled with its centre depth and
// one column per cell labelled with its centre x. Cells whose relative
// coverage is below lowCoverage are dimmed; a coverage of the wrong length
// is ignored.
func modelTable(m inversion.ModelGrid, coverage []float64) string {
	headers := make([]string, m.Nx+1)
	headers[0] = "z \\ x"
	for col := 0; col < m.Nx; col++ {
		headers[col+1] = strconv.FormatFloat(m.Coordinates[col].X, 'f', 1, 64)
	}
	rows := make([][]string, m.Nz)
	for layer := 0; layer < m.Nz; layer++ {
		row := make([]string, m.Nx+1)
		row[0] = strconv.FormatFloat(m.Coordinates[layer*m.Nx].Z, 'f', 2, 64)
		for col := 0; col < m.Nx; col++ {
			v, _ := m.At(layer, col)
			row[col+1] = strconv.FormatFloat(v, 'g', 4, 64)
		}
		rows[layer] = row
	}

	plain, dim := lipgloss.NewStyle(), defaultTheme.hintStyle()
	if len(coverage) != len(m.Values) {
		coverage = nil
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(defaultTheme.hintStyle()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if coverage == nil || row == table.HeaderRow || col == 0 {
				return plain
			}
			if coverage[row*m.Nx+col-1] < lowCoverage {
				return dim
			}
			return plain
		}).
		Render()
}

// summaryTable renders stored model summaries.
func summaryTable(list []store.Summary) string {
	rows := make([][]string, len(list))
	for i, s := range list {
		rows[i] = []string{
			s.ID.String(),
			s.Name,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			string(s.Quantity),
			s.State.String(),
			strconv.Itoa(s.Iterations),
			fmt.Sprintf("%.5f", s.FinalRMS),
			fmt.Sprintf("%dx%d", s.Nx, s.Nz),
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(defaultTheme.hintStyle()).
		Headers("ID", "NAME", "CREATED", "QUANTITY", "STATE", "ITER", "RMS", "GRID").
		Rows(rows...).
		Render()
}
