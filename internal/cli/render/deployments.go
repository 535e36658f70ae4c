package render

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/product-identification/pid-deploy/internal/domain/models"
	"github.com/product-identification/pid-deploy/internal/usecase"
	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Color styles for table format
var (
	chainBg         = color.BgCyan
	chainHeader     = color.New(chainBg, color.FgBlack)
	chainHeaderBold = color.New(chainBg, color.FgBlack, color.Bold)
	contractStyle   = color.New(color.FgGreen, color.Bold)
	addressStyle    = color.New(color.FgWhite)
	deployerStyle   = color.New(color.FgCyan)
	timestampStyle  = color.New(color.Faint)
)

// Output formats for the deployments listing
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

type TableData [][]string

// DeploymentsRenderer renders deployment lists as formatted tables with tree-style layout
type DeploymentsRenderer struct {
	out   io.Writer
	color bool
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, color bool) *DeploymentsRenderer {
	return &DeploymentsRenderer{
		out:   out,
		color: color,
	}
}

// Render renders the list in the requested output format
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult, format string) error {
	switch format {
	case "", OutputTable:
		return r.RenderDeploymentList(result)
	case OutputJSON:
		return r.renderJSON(result.Deployments)
	case OutputYAML:
		return r.renderYAML(result.Deployments)
	default:
		return fmt.Errorf("unknown output format %q (use table, json or yaml)", format)
	}
}

// RenderDeploymentList renders deployments in the tree-style format
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	r.displayTableFormat(result.Deployments)

	fmt.Fprintf(r.out, "Total deployments: %d\n", result.Summary.Total)
	return nil
}

func (r *DeploymentsRenderer) renderJSON(deployments []*models.Deployment) error {
	if deployments == nil {
		deployments = []*models.Deployment{}
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(deployments)
}

func (r *DeploymentsRenderer) renderYAML(deployments []*models.Deployment) error {
	if deployments == nil {
		deployments = []*models.Deployment{}
	}
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(deployments); err != nil {
		return err
	}
	return enc.Close()
}

// displayTableFormat shows deployments grouped by chain
func (r *DeploymentsRenderer) displayTableFormat(deployments []*models.Deployment) {
	chainGroups := lo.GroupBy(deployments, func(d *models.Deployment) uint64 { return d.ChainID })

	chainIDs := lo.Keys(chainGroups)
	sort.Slice(chainIDs, func(i, j int) bool { return chainIDs[i] < chainIDs[j] })

	// Build all tables first for consistent column widths
	tables := make(map[uint64]TableData, len(chainIDs))
	for _, chainID := range chainIDs {
		tables[chainID] = r.buildDeploymentTable(chainGroups[chainID])
	}
	globalColumnWidths := calculateTableColumnWidths(lo.Values(tables))

	for netIdx, chainID := range chainIDs {
		chainDeployments := chainGroups[chainID]

		// Determine if this is the last network for tree drawing
		isLastNetwork := netIdx == len(chainIDs)-1
		treePrefix := "├─"
		continuationPrefix := "│ "
		if isLastNetwork {
			treePrefix = "└─"
			continuationPrefix = "  "
		}

		networkNames := lo.Uniq(lo.Map(chainDeployments, func(d *models.Deployment, _ int) string { return d.Network }))
		sort.Strings(networkNames)

		chainLabel := fmt.Sprintf("%-12s", "chain:")
		chainValue := fmt.Sprintf("%-30s", fmt.Sprintf("%d (%s)", chainID, strings.Join(networkNames, ", ")))
		fmt.Fprintf(r.out, "%s%s%s\n",
			treePrefix,
			chainHeader.Sprintf(" ⛓ %s ", chainLabel),
			chainHeaderBold.Sprint(chainValue))
		fmt.Fprintln(r.out, continuationPrefix)

		fmt.Fprint(r.out, renderTableWithWidths(tables[chainID], globalColumnWidths, continuationPrefix))
		fmt.Fprintln(r.out)

		if !isLastNetwork {
			fmt.Fprintln(r.out, continuationPrefix)
		} else {
			fmt.Fprintln(r.out)
		}
	}
}

// buildDeploymentTable creates a TableData for a list of deployments
func (r *DeploymentsRenderer) buildDeploymentTable(deployments []*models.Deployment) TableData {
	tableData := make(TableData, 0, len(deployments))
	printer := message.NewPrinter(language.English)

	for _, deployment := range deployments {
		tableData = append(tableData, []string{
			contractStyle.Sprint(deployment.ContractName),
			addressStyle.Sprint(deployment.Address),
			deployerStyle.Sprintf("by %s", shortHex(deployment.Deployer)),
			fmt.Sprintf("block %d", deployment.BlockNumber),
			printer.Sprintf("%d gas", deployment.GasUsed),
			timestampStyle.Sprint(deployment.CreatedAt.Local().Format("2006-01-02 15:04:05")),
		})
	}

	return tableData
}

// shortHex abbreviates an address or hash
func shortHex(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}

// renderTableWithWidths renders a table with specific column widths
func renderTableWithWidths(tableData TableData, columnWidths []int, continuationPrefix string) string {
	if len(tableData) == 0 {
		return ""
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}

	// Configure column styles with calculated widths
	colConfigs := make([]table.ColumnConfig, len(columnWidths))
	for i, width := range columnWidths {
		if i == 0 {
			width += 2 + len([]rune(continuationPrefix))
		}
		colConfigs[i] = table.ColumnConfig{
			Number:   i + 1,
			Align:    text.AlignLeft,
			WidthMin: width,
			WidthMax: width,
		}
	}
	t.SetColumnConfigs(colConfigs)

	for _, row := range tableData {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			if i == 0 {
				tableRow[i] = continuationPrefix + cell
			} else {
				tableRow[i] = cell
			}
		}
		t.AppendRow(tableRow)
	}

	return t.Render()
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[mGKHF]`)

// stripAnsiCodes removes ANSI escape sequences from a string
func stripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// calculateTableColumnWidths calculates column widths for multiple tables
func calculateTableColumnWidths(tables []TableData) []int {
	if len(tables) == 0 {
		return nil
	}

	maxCols := 0
	for _, table := range tables {
		for _, row := range table {
			if len(row) > maxCols {
				maxCols = len(row)
			}
		}
	}

	widths := make([]int, maxCols)
	for _, table := range tables {
		for _, row := range table {
			for colIdx, cell := range row {
				// Strip ANSI codes for width calculation
				cellWidth := len([]rune(stripAnsiCodes(cell)))
				if cellWidth > widths[colIdx] {
					widths[colIdx] = cellWidth
				}
			}
		}
	}

	return widths
}
