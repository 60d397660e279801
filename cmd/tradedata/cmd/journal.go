package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedata/journal"
	"github.com/rustyeddy/tradedata/pkg/id"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the load journal",
	Long: `Query and display load records from a SQLite journal.

The journal is the one configured for loads (TRADE_JOURNAL_TYPE=sqlite and
TRADE_JOURNAL_PATH) unless --db names another file. The file must exist.

Subcommands:
  load   - Get details of a specific load by ID
  today  - List loads made today
  day    - List loads made on a specific day

Examples:
  tradedata journal load <load-id>
  tradedata journal today
  tradedata journal day 2025-01-15`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

var journalLoadCmd = &cobra.Command{
	Use:   "load <load-id>",
	Short: "Get details of a specific load",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalLoad,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List loads made today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List loads made on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalLoadCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite journal DB (default: configured journal)")
}

// openJournalDB opens the existing SQLite journal named by --db or by the
// configuration. It never creates a file.
func openJournalDB() (*journal.SQLite, error) {
	path := journalDBPath
	if path == "" {
		if cfg.Journal.Type != "sqlite" {
			return nil, fmt.Errorf("journal type is %q, not sqlite: set TRADE_JOURNAL_TYPE=sqlite or pass --db", cfg.Journal.Type)
		}
		path = cfg.Journal.Path
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("journal db: %w", err)
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalLoad(cmd *cobra.Command, args []string) error {
	if _, err := id.Time(args[0]); err != nil {
		return fmt.Errorf("load id %q: %w", args[0], err)
	}
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetLoad(args[0])
	if err != nil {
		return fmt.Errorf("get load: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatLoadOrg(rec))
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	return listDay(cmd, time.Now().Format("2006-01-02"))
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return listDay(cmd, args[0])
}

func listDay(cmd *cobra.Command, day string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListLoadsBetween(start, end)
	if err != nil {
		return fmt.Errorf("query loads: %w", err)
	}
	rate, err := j.CacheHitRate(start, end)
	if err != nil {
		return fmt.Errorf("query cache hit rate: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatLoadsOrg(recs))
	fmt.Fprintf(cmd.OutOrStdout(), "\nkline cache hit rate: %.0f%%\n", rate*100)
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)
	return start, end, nil
}
