package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"trawl/internal/galaxy"
	"trawl/internal/trs"
)

var importCmd = &cobra.Command{
	Use:   "import [tool-id] [version-id]",
	Short: "Import a workflow version into Galaxy",
	Args:  cobra.ExactArgs(2),
	RunE:  runImport,
}

var importServerName string

func init() {
	importCmd.Flags().StringVar(&importServerName, "server", "", "TRS server name (default: configured default)")
}

func runImport(cmd *cobra.Command, args []string) error {
	toolID, versionID := args[0], args[1]

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	server, err := resolveServer(st, importServerName)
	if err != nil {
		return err
	}

	// Verify the tool and version exist before handing off to Galaxy.
	client := trs.NewClient()
	tool, err := client.FetchTool(context.Background(), server, toolID)
	if err != nil {
		return err
	}
	found := false
	for _, v := range tool.Versions {
		if v.ID == versionID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("version %q not found for tool %q on %s (%d versions available)", versionID, toolID, server.DisplayName(), len(tool.Versions))
	}

	gx := galaxy.NewClient(galaxyURL, galaxyKey)
	workflowID, err := gx.ImportVersion(context.Background(), server.BaseURL, toolID, versionID)
	if err != nil {
		return err
	}

	if _, err := st.RecordImport(server.Name, server.BaseURL, toolID, versionID, workflowID); err != nil {
		log.Printf("Warning: failed to record import history: %v", err)
	}

	fmt.Printf("Imported %s @ %s\n", toolID, versionID)
	fmt.Printf("Workflow ID: %s\n", workflowID)
	return nil
}
