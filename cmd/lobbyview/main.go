package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coolbeans/lobbyview/pkg/config"
	"github.com/coolbeans/lobbyview/pkg/dataset"
	"github.com/coolbeans/lobbyview/pkg/report"
	"github.com/coolbeans/lobbyview/pkg/table"
	"github.com/coolbeans/lobbyview/pkg/watch"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "lobbyview",
		Short: "Lobbying Disclosure Data Explorer",
		Long: `Lobbyview explores a static JSON export of lobbying disclosure
filings.

It flattens the nested filing records into a table with derived columns
(lobbyist identities, covered positions, foreign entities, registrant
types, filing links) and provides filtering, frequency counts, and
aggregate breakdowns over that table.`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringP("data", "d", "", "Path to the lobbying data JSON export (overrides the profile)")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "Explorer profile YAML file")

	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(countsCmd())
	rootCmd.AddCommand(yearsCmd())
	rootCmd.AddCommand(typesCmd())
	rootCmd.AddCommand(lobbyistCmd())
	rootCmd.AddCommand(distinctCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(initCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the explorer profile from the persistent flags:
// --profile loads a YAML profile, --data overrides its data path.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	profilePath, _ := cmd.Flags().GetString("profile")
	dataPath, _ := cmd.Flags().GetString("data")

	cfg := config.Default()
	if profilePath != "" {
		loaded, err := config.LoadFromFile(profilePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	return cfg, nil
}

// loadTable loads the filing table for the resolved profile.
func loadTable(cmd *cobra.Command) (*table.Table, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	tab, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return nil, nil, err
	}
	return tab, cfg, nil
}

// applyFilters narrows the table by the show/export filter flags.
func applyFilters(cmd *cobra.Command, tab *table.Table) *table.Table {
	years, _ := cmd.Flags().GetIntSlice("year")
	clients, _ := cmd.Flags().GetStringSlice("client")
	registrants, _ := cmd.Flags().GetStringSlice("registrant")
	entities, _ := cmd.Flags().GetStringSlice("foreign-entity")
	lobbyist, _ := cmd.Flags().GetString("lobbyist")

	if len(years) > 0 {
		tab = tab.FilterYears(years)
	}
	if len(clients) > 0 {
		tab = tab.FilterEqual(table.ColClientName, clients)
	}
	if len(registrants) > 0 {
		tab = tab.FilterEqual(table.ColRegistrantName, registrants)
	}
	if len(entities) > 0 {
		tab = tab.FilterMember(table.ColForeignEntities, entities)
	}
	if lobbyist != "" {
		tab = tab.FilterLobbyist(lobbyist)
	}
	return tab
}

// addFilterFlags registers the shared filter flags.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().IntSlice("year", []int{}, "Filing year(s) to include")
	cmd.Flags().StringSlice("client", []string{}, "Client name(s) to include")
	cmd.Flags().StringSlice("registrant", []string{}, "Registrant name(s) to include")
	cmd.Flags().StringSlice("foreign-entity", []string{}, "Foreign entity name(s) to include")
	cmd.Flags().String("lobbyist", "", "Keep only filings naming this lobbyist")
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the filing table",
		Long: `Show the derived filing table, optionally filtered.

Filters combine with AND across columns; list-valued filters accept a row
when any value matches. Filter order does not affect the result.

Examples:
  lobbyview show --data lobbying_data.json
  lobbyview show --year 2023 --year 2024
  lobbyview show --client "Acme Corp" --format json
  lobbyview show --lobbyist "Jane Doe" --format csv
  lobbyview show --columns filing_year,client_name,lobbyists`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, cfg, err := loadTable(cmd)
			if err != nil {
				return err
			}
			tab = applyFilters(cmd, tab)

			columns, _ := cmd.Flags().GetStringSlice("columns")
			if len(columns) == 0 {
				columns = cfg.DisplayColumns()
			}

			formatStr, _ := cmd.Flags().GetString("format")
			listing := report.NewListing(tab, columns)
			output, err := listing.Format(report.OutputFormat(formatStr))
			if err != nil {
				return err
			}
			fmt.Print(output)
			return nil
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json, csv)")
	cmd.Flags().StringSlice("columns", []string{}, "Columns to display (default from profile)")
	return cmd
}

func countsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Count distinct values of a column",
		Long: `Count occurrences of each distinct value in a column, most
frequent first. Collection-valued columns (lobbyists, covered_positions,
foreign_entities) are exploded first: one count unit per element, rows with
empty collections contributing nothing.

Examples:
  lobbyview counts --column registrant_type
  lobbyview counts --column covered_positions
  lobbyview counts --column foreign_entities --year 2023
  lobbyview counts --column client_name --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			column, _ := cmd.Flags().GetString("column")
			if column == "" {
				return fmt.Errorf("--column flag is required")
			}

			tab, _, err := loadTable(cmd)
			if err != nil {
				return err
			}
			tab = applyFilters(cmd, tab)

			counts := report.NewCountReport(tab, column)

			formatStr, _ := cmd.Flags().GetString("format")
			if formatStr == "json" {
				data, err := counts.ToJSON()
				if err != nil {
					return fmt.Errorf("failed to serialize counts: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}
			fmt.Print(counts.String())
			return nil
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().StringP("column", "c", "", "Column to count")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	return cmd
}

func yearsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "years",
		Short: "Chart filings per year",
		Long: `Render a bar chart of filings per year. Filings whose year could
not be read as an integer are excluded.

Example:
  lobbyview years --data lobbying_data.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, _, err := loadTable(cmd)
			if err != nil {
				return err
			}
			tab = applyFilters(cmd, tab)

			fmt.Println("Lobbying Registrations Per Year")
			fmt.Println()
			fmt.Print(report.NewYearChart(tab).String())
			return nil
		},
	}

	addFilterFlags(cmd)
	return cmd
}

func typesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Break down filings by registrant type",
		Long: `Show the share of filings per registrant type. Filings without a
registrant description fall under "Unknown".

Example:
  lobbyview types --year 2024`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, _, err := loadTable(cmd)
			if err != nil {
				return err
			}
			tab = applyFilters(cmd, tab)

			fmt.Println("Types of Registrants")
			fmt.Println()
			fmt.Print(report.NewCountReport(tab, table.ColRegistrantType).Shares())
			return nil
		},
	}

	addFilterFlags(cmd)
	return cmd
}

func lobbyistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lobbyist [name]",
		Short: "Show details for one lobbyist",
		Long: `Show every filing that names the lobbyist, the foreign entities
involved, and the lobbyist's merged covered positions.

Examples:
  lobbyview lobbyist "Jane Doe"
  lobbyview lobbyist "Jane Doe" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, _, err := loadTable(cmd)
			if err != nil {
				return err
			}

			detail := report.NewLobbyistDetail(tab, args[0])

			formatStr, _ := cmd.Flags().GetString("format")
			if formatStr == "json" {
				data, err := detail.ToJSON()
				if err != nil {
					return fmt.Errorf("failed to serialize detail: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}
			fmt.Print(detail.String())
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	return cmd
}

func distinctCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distinct",
		Short: "List the distinct values of a column",
		Long: `List the distinct values of a column in sorted order, as used to
build filter selection menus. Empty values are excluded.

Examples:
  lobbyview distinct --column client_name
  lobbyview distinct --column lobbyists`,
		RunE: func(cmd *cobra.Command, args []string) error {
			column, _ := cmd.Flags().GetString("column")
			if column == "" {
				return fmt.Errorf("--column flag is required")
			}

			tab, _, err := loadTable(cmd)
			if err != nil {
				return err
			}

			for _, value := range tab.DistinctValues(column) {
				fmt.Println(value)
			}
			return nil
		},
	}

	cmd.Flags().StringP("column", "c", "", "Column to list")
	return cmd
}

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize the loaded dataset",
		Long: `Print the row count and the aggregate breakdowns enabled in the
profile: filings per year, registrant types, foreign entities, and covered
positions.

Example:
  lobbyview summary --data lobbying_data.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, cfg, err := loadTable(cmd)
			if err != nil {
				return err
			}
			printSummary(tab, cfg)
			return nil
		},
	}
	return cmd
}

func printSummary(tab *table.Table, cfg *config.Config) {
	fmt.Printf("Lobbying Data Explorer: %d filings loaded from %s\n", tab.Len(), cfg.DataPath)

	if cfg.Charts.FilingsPerYear {
		fmt.Println("\nLobbying Registrations Per Year")
		fmt.Print(report.NewYearChart(tab).String())
	}
	if cfg.Charts.RegistrantTypes {
		fmt.Println("\nTypes of Registrants")
		fmt.Print(report.NewCountReport(tab, table.ColRegistrantType).Shares())
	}
	if cfg.Charts.ForeignEntities {
		fmt.Println("\nForeign Entities Mentioned")
		fmt.Print(report.NewCountReport(tab, table.ColForeignEntities).String())
	}
	if cfg.Charts.Positions {
		fmt.Println("\nCovered Positions of Lobbyists")
		fmt.Print(report.NewCountReport(tab, table.ColCoveredPositions).String())
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filing table to a file",
		Long: `Export the derived filing table (optionally filtered) as CSV or
JSON.

Examples:
  lobbyview export --output filings.csv
  lobbyview export --output filings.json --format json
  lobbyview export --output 2024.csv --year 2024`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				return fmt.Errorf("--output flag is required")
			}

			tab, cfg, err := loadTable(cmd)
			if err != nil {
				return err
			}
			tab = applyFilters(cmd, tab)

			formatStr, _ := cmd.Flags().GetString("format")
			listing := report.NewListing(tab, cfg.DisplayColumns())
			data, err := listing.Format(report.OutputFormat(formatStr))
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, []byte(data), 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Printf("Exported %d rows to %s\n", tab.Len(), output)
			return nil
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Output file path")
	cmd.Flags().StringP("format", "f", "csv", "Output format (csv, json, table)")
	return cmd
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the data file and reload on change",
		Long: `Watch the data file and rebuild the table whenever it changes,
printing a fresh summary after each reload. The entire table is recomputed
from scratch on every change.

Example:
  lobbyview watch --data lobbying_data.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			tab, err := dataset.Load(cfg.DataPath)
			if err != nil {
				return err
			}
			printSummary(tab, cfg)

			watcher := watch.NewWatcher(cfg.DataPath, func() {
				reloaded, err := dataset.Load(cfg.DataPath)
				if err != nil {
					fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
					return
				}
				fmt.Println("\nData file changed, table rebuilt.")
				printSummary(reloaded, cfg)
			})
			if err := watcher.Start(); err != nil {
				return err
			}
			defer watcher.Stop()

			fmt.Printf("\nWatching %s for changes (Ctrl+C to stop)...\n", cfg.DataPath)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			return nil
		},
	}
	return cmd
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [profile-file]",
		Short: "Write a starter explorer profile",
		Long: `Write a starter profile with the default data path, display
columns, and chart toggles.

Example:
  lobbyview init lobbyview.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "lobbyview.yaml"
			if len(args) > 0 {
				path = args[0]
			}

			if err := config.Default().SaveToFile(path); err != nil {
				return err
			}
			fmt.Printf("Wrote starter profile: %s\n", path)
			fmt.Println("Next steps:")
			fmt.Printf("  1. Point data_path at your lobbying data export\n")
			fmt.Printf("  2. Run: lobbyview summary --profile %s\n", path)
			return nil
		},
	}
	return cmd
}
