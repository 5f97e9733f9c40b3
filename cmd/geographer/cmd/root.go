package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kit-parco/geographer-go/pkg/utils"
)

var (
	verbose bool
	logger  utils.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "geographer",
	Short: "A distributed-memory parallel graph and point-set partitioner",
	Long: `geographer partitions a point cloud or graph into balanced blocks
using balanced k-means with space-filling-curve redistribution and a
hierarchical processor-tree driver. It accepts METIS and Matrix Market
graph formats alongside plain, OCEAN and TEEC coordinate formats, and
writes a one-block-id-per-line partition file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	binName := BinName()
	rootCmd.Example = `  # Partition a METIS graph's coordinates into 16 balanced blocks
  ` + binName + ` partition --coords mesh.xyz --blocks 16 --epsilon 0.03

  # Partition hierarchically across a 4x4 processor tree, also reporting cut
  ` + binName + ` partition --coords mesh.xyz --graph mesh.graph --blocks 16 --hier-levels 4,4`
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
