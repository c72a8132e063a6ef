package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TracecatHQ/caseboard/internal/client"
	"github.com/TracecatHQ/caseboard/internal/model"
)

var createCmd = &cobra.Command{
	Use:   "create <summary>",
	Short: "Create a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if workspaceID == "" {
			return fmt.Errorf("workspace is required (set --workspace or CASEBOARD_WORKSPACE)")
		}

		description, _ := cmd.Flags().GetString("description")
		status, _ := cmd.Flags().GetString("status")
		priority, _ := cmd.Flags().GetString("priority")
		severity, _ := cmd.Flags().GetString("severity")
		assignee, _ := cmd.Flags().GetString("assignee")
		assigneeEmail, _ := cmd.Flags().GetString("assignee-email")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		dropdowns, _ := cmd.Flags().GetStringArray("dropdown")

		req := &client.CreateCaseRequest{
			WorkspaceID:   workspaceID,
			Summary:       args[0],
			Description:   description,
			Status:        status,
			Priority:      priority,
			Severity:      severity,
			AssigneeID:    assignee,
			AssigneeEmail: assigneeEmail,
		}
		for _, ref := range tags {
			req.Tags = append(req.Tags, model.Tag{Ref: ref, Name: ref})
		}
		for _, tok := range dropdowns {
			def, opt, ok := strings.Cut(tok, ":")
			if !ok || def == "" || opt == "" {
				return fmt.Errorf("invalid --dropdown value %q (expected <definition>:<option>)", tok)
			}
			req.DropdownValues = append(req.DropdownValues, model.DropdownValue{DefinitionRef: def, OptionRef: opt})
		}

		created, err := caseClient.CreateCase(context.Background(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			printCaseJSON(created)
		} else {
			fmt.Printf("created %s\n", created.ID)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().String("description", "", "case description")
	createCmd.Flags().String("status", "", "initial status (default new)")
	createCmd.Flags().String("priority", "", "priority (low, medium, high, critical)")
	createCmd.Flags().String("severity", "", "severity (informational through fatal)")
	createCmd.Flags().String("assignee", "", "assignee user ID")
	createCmd.Flags().String("assignee-email", "", "assignee email")
	createCmd.Flags().StringSliceP("tag", "t", nil, "tag ref (repeatable)")
	createCmd.Flags().StringArrayP("dropdown", "d", nil, "dropdown value (<definition>:<option>, repeatable)")
}
