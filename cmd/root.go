package cmd

import (
	"github.com/spf13/cobra"

	mtp "github.com/modeltoolsprotocol/go-sdk"
	"github.com/todoslice/todoslice/internal/config"
)

var (
	version  = "dev"
	cfgFile  string
	todoFile string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "todoslice",
	Short:   "Edit filtered slices of a todo.txt file in your editor",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if todoFile != "" {
			cfg.TodoFile = todoFile
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&todoFile, "todo-file", "", "todo file to operate on (overrides TODO_FILE)")

	mtp.WithDescribe(rootCmd, &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"all": {
				Examples: []mtp.Example{
					{Description: "Edit every visible task", Command: "todoslice all"},
				},
			},
			"future": {
				Examples: []mtp.Example{
					{Description: "Edit tasks scheduled to start later", Command: "todoslice future"},
				},
			},
			"terms": {
				Examples: []mtp.Example{
					{Description: "Edit tasks mentioning the phone project", Command: "todoslice terms phone"},
					{Description: "Exclude a term with a leading dash", Command: "todoslice terms phone -calls"},
				},
			},
			"tags": {
				Examples: []mtp.Example{
					{Description: "Edit the (A) tasks in a project", Command: "todoslice tags A +report"},
					{Description: "Edit unprioritized tasks in a context", Command: "todoslice tags _ @home"},
				},
			},
			"review": {
				Examples: []mtp.Example{
					{Description: "Review tasks that have gone stale", Command: "todoslice review"},
				},
			},
			"config": {
				Stdout: &mtp.IODescriptor{
					ContentType: "application/yaml",
					Description: "The effective configuration after environment and config file resolution",
				},
			},
		},
	})
}

func Execute() error {
	return rootCmd.Execute()
}
