package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"trawl/internal/galaxy"
	"trawl/internal/importer"
	"trawl/internal/trs"
	"trawl/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive import dialog",
	RunE:  runTUI,
}

var (
	tuiServerName string
	tuiToolID     string
)

func init() {
	tuiCmd.Flags().StringVar(&tuiServerName, "server", "", "Pre-select a TRS server")
	tuiCmd.Flags().StringVar(&tuiToolID, "tool", "", "Pre-fill the tool id")
}

func runTUI(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		log.Printf("Warning: history unavailable: %v", err)
		st = nil
	}
	if st != nil {
		defer st.Close()
	}

	reg, err := buildRegistry(st)
	if err != nil {
		return err
	}

	ctrl := importer.New(trs.NewClient(), galaxy.NewClient(galaxyURL, galaxyKey), tuiToolID)

	// Deep-link server selection goes through the selector path so a bad
	// name surfaces as a selection error inside the dialog.
	if tuiServerName != "" {
		if server, err := reg.Resolve(tuiServerName); err != nil {
			ctrl.OnServerSelectionFailed(err.Error())
		} else {
			ctrl.OnServerSelected(server)
		}
	}

	app := tui.New(ctrl, reg, st)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
