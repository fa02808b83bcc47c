package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "List one page of a resource",
	Long: `List projects, articles, services, team or clients ten rows at a time.

Examples:
  cmsctl list projects --filter status=completed
  cmsctl list articles --search pricing --page 2`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

var exportCmd = &cobra.Command{
	Use:   "export <resource>",
	Short: "Export rows of a resource as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <resource> <id>...",
	Short: "Delete rows of a resource",
	Long: `Delete the given ids one after another. Deletes are not atomic: rows
removed before a failure stay removed and every failure is reported.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDelete,
}

var (
	listSearch  string
	listFilters []string
	listPage    int
	exportIDs   []int64
	exportOut   string
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(deleteCmd)

	for _, cmd := range []*cobra.Command{listCmd, exportCmd} {
		cmd.Flags().StringVarP(&listSearch, "search", "s", "", "free text search")
		cmd.Flags().StringArrayVarP(&listFilters, "filter", "f", nil, "key=value filter, repeatable")
	}
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page number")
	exportCmd.Flags().Int64SliceVar(&exportIDs, "ids", nil, "export only these ids")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to a file instead of stdout")
}

// loadConsole fetches a resource and applies the search and filter flags
func loadConsole(cmd *cobra.Command, resource string) (resourceConsole, error) {
	filters, err := parseFilters(listFilters)
	if err != nil {
		return nil, err
	}
	console, err := newResourceConsole(newClient(), resource)
	if err != nil {
		return nil, err
	}
	if err := console.Refresh(cmd.Context()); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", resource, err)
	}

	state := console.ListState()
	state.SetSearch(listSearch)
	for key, value := range filters {
		state.SetFilter(key, value)
	}
	return console, nil
}

func runList(cmd *cobra.Command, args []string) error {
	console, err := loadConsole(cmd, args[0])
	if err != nil {
		return err
	}
	console.ListState().SetPage(listPage)

	lines, page := console.PageLines()
	out := cmd.OutOrStdout()
	if page.TotalItems == 0 {
		fmt.Fprintf(out, "No %s found\n", args[0])
		return nil
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	if len(lines) == 0 {
		fmt.Fprintf(out, "Page %d is past the last page\n", page.Page)
	}
	fmt.Fprintf(out, "\n%d %s, page %s\n", page.TotalItems, args[0], formatPageNumbers(page.Page, page.TotalPages))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	console, err := loadConsole(cmd, args[0])
	if err != nil {
		return err
	}

	ids := exportIDs
	if len(ids) == 0 && (listSearch != "" || len(listFilters) > 0) {
		ids = console.VisibleIDs()
		if len(ids) == 0 {
			return fmt.Errorf("no %s match the given search and filters", args[0])
		}
	}
	console.Selected().Select(ids...)

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOut, err)
		}
		defer f.Close()
		w = f
	}
	if err := console.Export(w); err != nil {
		return fmt.Errorf("failed to export %s: %w", args[0], err)
	}
	if exportOut != "" {
		log.Info().Str("file", exportOut).Msg("Export written")
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}

	console, err := newResourceConsole(newClient(), args[0])
	if err != nil {
		return err
	}
	console.Selected().Select(ids...)

	result, err := console.BulkDelete(cmd.Context())
	out := cmd.OutOrStdout()
	for _, id := range result.Deleted {
		fmt.Fprintf(out, "deleted %d\n", id)
	}
	for _, id := range sortedKeys(result.Failed) {
		fmt.Fprintf(out, "failed  %d: %v\n", id, result.Failed[id])
	}
	if err != nil {
		log.Warn().Err(err).Msg("Could not reload the list after deleting")
	}
	return result.Err()
}
