package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"trawl/internal/models"
)

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "Manage the TRS server catalog",
}

var serversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured TRS servers",
	RunE:  runServersList,
}

var serversAddCmd = &cobra.Command{
	Use:   "add [name] [url]",
	Short: "Add a TRS server",
	Args:  cobra.ExactArgs(2),
	RunE:  runServersAdd,
}

var serversRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a user-added TRS server",
	Args:  cobra.ExactArgs(1),
	RunE:  runServersRemove,
}

var serverLabel string

func init() {
	serversCmd.AddCommand(serversListCmd, serversAddCmd, serversRemoveCmd)

	serversAddCmd.Flags().StringVar(&serverLabel, "label", "", "Display label for the server")
}

func runServersList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	reg, err := buildRegistry(st)
	if err != nil {
		return err
	}

	servers := reg.List()
	if len(servers) == 0 {
		fmt.Println("No servers configured")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLABEL\tURL")
	for _, s := range servers {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, s.Label, s.BaseURL)
	}
	w.Flush()
	return nil
}

func runServersAdd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	server := models.TRSServer{
		Name:    args[0],
		Label:   serverLabel,
		BaseURL: args[1],
	}
	if err := st.AddServer(server); err != nil {
		return err
	}

	fmt.Printf("Added server %s (%s)\n", server.Name, server.BaseURL)
	return nil
}

func runServersRemove(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.RemoveServer(args[0]); err != nil {
		return err
	}

	fmt.Printf("Removed server %s\n", args[0])
	return nil
}
