// Package cmd provides CLI command implementations.
package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/dynalint/dynalint/internal/build"
	"github.com/dynalint/dynalint/internal/output"
	"github.com/dynalint/dynalint/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show dynalint version information.

Displays:
  - CLI version, commit, and build date
  - go binary in PATH and whether it can drive plugin builds
  - cached driver binaries per toolchain`,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()
	goInfo := version.DetectGoBinary()

	var drivers []build.InstalledDriver
	if globalConfig != nil {
		var err error
		drivers, err = build.InstalledDrivers(globalConfig.DriverDir)
		if err != nil {
			output.Debug("listing drivers", "error", err)
		}
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}
	if format == output.FormatJSON {
		return writeVersionJSON(info, goInfo, drivers)
	}

	output.Println(version.FullVersionString(info, goInfo))

	if len(drivers) > 0 {
		output.Println("")
		output.Println("Drivers:")
		tbl := output.NewTable("TOOLCHAIN", "VERSION")
		for _, d := range drivers {
			tbl.Row(d.Toolchain.String(), d.Version)
		}
		output.Println(tbl.String())
	}

	return nil
}

func writeVersionJSON(info version.Info, goInfo version.GoBinaryInfo, drivers []build.InstalledDriver) error {
	type driverJSON struct {
		Toolchain string `json:"toolchain"`
		Version   string `json:"version"`
		Path      string `json:"path"`
	}
	payload := struct {
		Dynalint version.Info         `json:"dynalint"`
		Go       version.GoBinaryInfo `json:"go"`
		Drivers  []driverJSON         `json:"drivers,omitempty"`
	}{Dynalint: info, Go: goInfo}
	for _, d := range drivers {
		payload.Drivers = append(payload.Drivers, driverJSON{
			Toolchain: d.Toolchain.String(),
			Version:   d.Version,
			Path:      d.Path,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
