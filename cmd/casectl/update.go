package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TracecatHQ/caseboard/internal/client"
	"github.com/TracecatHQ/caseboard/internal/model"
)

var updateCmd = &cobra.Command{
	Use:   "update <case-id>",
	Short: "Update a case (only the given flags change)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if workspaceID == "" {
			return fmt.Errorf("workspace is required (set --workspace or CASEBOARD_WORKSPACE)")
		}

		req := &client.UpdateCaseRequest{}
		strPtr := func(name string) *string {
			if !cmd.Flags().Changed(name) {
				return nil
			}
			v, _ := cmd.Flags().GetString(name)
			return &v
		}
		req.Summary = strPtr("summary")
		req.Description = strPtr("description")
		req.Status = strPtr("status")
		req.Priority = strPtr("priority")
		req.Severity = strPtr("severity")
		req.AssigneeID = strPtr("assignee")
		req.AssigneeEmail = strPtr("assignee-email")

		if cmd.Flags().Changed("tag") {
			tags, _ := cmd.Flags().GetStringSlice("tag")
			req.Tags = make([]model.Tag, 0, len(tags))
			for _, ref := range tags {
				req.Tags = append(req.Tags, model.Tag{Ref: ref, Name: ref})
			}
		}
		if cmd.Flags().Changed("dropdown") {
			dropdowns, _ := cmd.Flags().GetStringArray("dropdown")
			req.DropdownValues = make([]model.DropdownValue, 0, len(dropdowns))
			for _, tok := range dropdowns {
				def, opt, ok := strings.Cut(tok, ":")
				if !ok || def == "" || opt == "" {
					return fmt.Errorf("invalid --dropdown value %q (expected <definition>:<option>)", tok)
				}
				req.DropdownValues = append(req.DropdownValues, model.DropdownValue{DefinitionRef: def, OptionRef: opt})
			}
		}

		updated, err := caseClient.UpdateCase(context.Background(), workspaceID, args[0], req)
		if err != nil {
			return err
		}

		if jsonOutput {
			printCaseJSON(updated)
		} else {
			fmt.Printf("updated %s\n", updated.ID)
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().String("summary", "", "new summary")
	updateCmd.Flags().String("description", "", "new description")
	updateCmd.Flags().String("status", "", "new status")
	updateCmd.Flags().String("priority", "", "new priority")
	updateCmd.Flags().String("severity", "", "new severity")
	updateCmd.Flags().String("assignee", "", "new assignee ID (empty string unassigns)")
	updateCmd.Flags().String("assignee-email", "", "new assignee email")
	updateCmd.Flags().StringSliceP("tag", "t", nil, "replace tags (repeatable)")
	updateCmd.Flags().StringArrayP("dropdown", "d", nil, "replace dropdown values (<definition>:<option>, repeatable)")
}
