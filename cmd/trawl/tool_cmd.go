package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"trawl/internal/trs"
)

var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Look up tools on a TRS server",
}

var toolShowCmd = &cobra.Command{
	Use:   "show [tool-id]",
	Short: "Show a tool record",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolShow,
}

var toolVersionsCmd = &cobra.Command{
	Use:   "versions [tool-id]",
	Short: "List the versions of a tool",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolVersions,
}

var serverName string

func init() {
	toolCmd.AddCommand(toolShowCmd, toolVersionsCmd)

	toolCmd.PersistentFlags().StringVar(&serverName, "server", "", "TRS server name (default: configured default)")
}

func runToolShow(cmd *cobra.Command, args []string) error {
	server, err := resolveServerWithCatalog(serverName)
	if err != nil {
		return err
	}

	client := trs.NewClient()
	tool, err := client.FetchTool(context.Background(), server, args[0])
	if err != nil {
		return err
	}

	name := tool.Name
	if name == "" {
		name = tool.ID
	}
	fmt.Printf("ID:           %s\n", tool.ID)
	fmt.Printf("Name:         %s\n", name)
	if tool.Organization != "" {
		fmt.Printf("Organization: %s\n", tool.Organization)
	}
	if tool.ToolClass.Name != "" {
		fmt.Printf("Type:         %s\n", tool.ToolClass.Name)
	}
	if tool.Description != "" {
		fmt.Printf("Description:  %s\n", truncate(tool.Description, 200))
	}
	fmt.Printf("Server:       %s (%s)\n", server.DisplayName(), server.BaseURL)
	fmt.Printf("Versions:     %d\n", len(tool.Versions))

	return nil
}

func runToolVersions(cmd *cobra.Command, args []string) error {
	server, err := resolveServerWithCatalog(serverName)
	if err != nil {
		return err
	}

	client := trs.NewClient()
	versions, err := client.FetchVersions(context.Background(), server, args[0])
	if err != nil {
		return err
	}

	if len(versions) == 0 {
		fmt.Println("No versions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tDESCRIPTORS\tPRODUCTION\tVERIFIED")
	for _, v := range versions {
		production := ""
		if v.IsProduction {
			production = "yes"
		}
		verified := ""
		if v.Verified {
			verified = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.ID, strings.Join(v.DescriptorTypes, ","), production, verified)
	}
	w.Flush()
	return nil
}
