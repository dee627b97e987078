package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/acpaulo/causal-inference-short-course/pkg/version"
)

var (
	cfgFile string

	flagWorkers  int
	flagJSONLogs bool
	flagStrict   bool
	flagVerbose  bool
	flagMock     bool
)

var rootCmd = &cobra.Command{
	Use:   "grndag",
	Short: "Greedy DAG builder for inferred gene-regulatory networks",
	Long: `grndag - Causal Network Assembly

Take a ranked edge list from a causal-inference run and assemble the
largest acyclic regulatory network a greedy pass can keep.`,
	Version: version.Current,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent Flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.grndag.yaml)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 4, "Datasets processed concurrently")
	rootCmd.PersistentFlags().BoolVar(&flagJSONLogs, "json-logs", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", false, "Fail the run if any dataset fails")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose logging")

	// Hidden Flags
	rootCmd.PersistentFlags().BoolVar(&flagMock, "mock", false, "Use the synthetic scorer instead of input files")
	rootCmd.PersistentFlags().MarkHidden("mock")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})

	rootCmd.AddCommand(BuildCmd)
	rootCmd.AddCommand(AnalyzeCmd)
	rootCmd.AddCommand(ValidateCmd)
	rootCmd.AddCommand(ExportCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".grndag.yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("GRNDAG")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}

func renderHelp(cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Println(titleStyle.Render(fmt.Sprintf("GRNDAG %s", version.Current)))
	fmt.Println("Greedy acyclic network assembly for causal inference courses.")

	fmt.Println(titleStyle.Render("USAGE"))
	fmt.Printf("  %s\n\n", cmd.UseLine())

	fmt.Println(titleStyle.Render("COMMANDS"))
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() {
			fmt.Printf("  %-12s %s\n", c.Name(), c.Short)
		}
	}
	fmt.Println("")

	fmt.Println(titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Println(flagStyle.Render(output))
	})
	fmt.Println("")
}
