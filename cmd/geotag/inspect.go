package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>...",
	Short: "Print the geotag of each file",
	Long: `Prints one line per file: the decimal latitude and longitude, or the
reason the file has no usable geotag.

$ geotag inspect IMG_0042.jpg
IMG_0042.jpg	43.263012,-2.935007
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys := afero.NewOsFs()
		reports := make([]report, 0, len(args))
		for _, name := range args {
			reports = append(reports, inspectFile(fsys, name))
		}
		return writeReports(cmd.OutOrStdout(), reports, inspectJSON)
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print one JSON object per file")
	rootCmd.AddCommand(inspectCmd)
}
