// Command geotag reports the GPS position embedded in photo files, the way
// the journal reads it on upload.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "geotag",
	Short: "Read EXIF GPS positions from photos",
	Long: `
geotag reads the GPS position embedded in JPEG and TIFF photos using the same
rules the journal applies when a photo is uploaded to a location. Files
without a usable position are reported with the reason.
`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
