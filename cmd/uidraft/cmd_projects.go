package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/uidraft/uidraft/internal/config"
	"github.com/uidraft/uidraft/internal/store"
)

func init() {
	rootCmd.AddCommand(projectsCmd)
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List saved projects",
	RunE:  runProjects,
}

func runProjects(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	s, err := store.New(db)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	ctx := cmd.Context()
	projects := s.Projects(ctx)
	if len(projects) == 0 {
		fmt.Println("no projects")
		return nil
	}

	activeID := s.ActiveProjectID(ctx)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSIONS\tMODIFIED\t")
	for _, p := range projects {
		marker := ""
		if p.ID == activeID {
			marker = " *"
		}
		modified := time.UnixMilli(p.LastModified).Format("2006-01-02 15:04")
		fmt.Fprintf(w, "%s%s\t%s\t%d\t%s\t\n", p.ID, marker, p.DisplayName(), len(p.History), modified)
	}
	return w.Flush()
}
