package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/todoslice/todoslice/internal/engine"
	"github.com/todoslice/todoslice/internal/slice"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Edit all visible tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSlice(func(opt slice.Options) (slice.Slice, error) {
			return slice.NewAll(opt), nil
		})
	},
}

var futureCmd = &cobra.Command{
	Use:   "future",
	Short: "Edit tasks whose start date is still ahead",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSlice(func(opt slice.Options) (slice.Slice, error) {
			return slice.NewFuture(opt), nil
		})
	},
}

var termsCmd = &cobra.Command{
	Use:   "terms [TERM...]",
	Short: "Edit tasks matching search terms (-term excludes)",
	// Exclusion terms start with "-"; keep cobra from eating them as flags.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSlice(func(opt slice.Options) (slice.Slice, error) {
			return slice.NewTerms(args, opt)
		})
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags [PRIORITY] [TAG...]",
	Short: "Edit tasks carrying a priority and/or set of tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSlice(func(opt slice.Options) (slice.Slice, error) {
			return slice.NewTags(args, opt)
		})
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Edit tasks that are due for review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSlice(func(opt slice.Options) (slice.Slice, error) {
			return slice.NewReview(cfg.ReviewIntervals, opt)
		})
	},
}

func init() {
	rootCmd.AddCommand(allCmd, futureCmd, termsCmd, tagsCmd, reviewCmd)
}

func runSlice(build func(slice.Options) (slice.Slice, error)) error {
	if cfg.TodoFile == "" {
		return fmt.Errorf("no todo file configured: set TODO_FILE or pass --todo-file")
	}

	day := today()
	opt := slice.Options{Today: day, DisableFilter: cfg.DisableFilter}
	if cfg.DateOnAdd {
		opt.DefaultCreateDate = day
	}
	s, err := build(opt)
	if err != nil {
		return err
	}

	d, err := engine.Reconcile(newEnv(cfg.Editor), s, engine.Options{
		TodoFile:            cfg.TodoFile,
		Today:               day,
		PreserveLineNumbers: cfg.PreserveLineNumbers,
	})
	for _, w := range d.Warnings() {
		fmt.Fprintln(os.Stderr, "warning: "+w)
	}
	return err
}

// today is the local calendar date, pinned once per invocation. Task dates
// carry no zone, so comparisons happen in UTC.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
