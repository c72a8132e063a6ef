package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/TracecatHQ/caseboard/internal/model"
	"github.com/TracecatHQ/caseboard/internal/ui"
)

func printCaseJSON(c *model.CaseSummary) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printCaseDetail(c *model.CaseSummary) {
	fmt.Printf("ID:          %s\n", ui.RenderAccent(c.ID))
	fmt.Printf("Workspace:   %s\n", c.WorkspaceID)
	fmt.Printf("Summary:     %s\n", c.Summary)
	fmt.Printf("Status:      %s\n", ui.RenderStatus(c.Status))
	fmt.Printf("Priority:    %s\n", ui.RenderPriority(c.Priority))
	fmt.Printf("Severity:    %s\n", ui.RenderSeverity(c.Severity))
	if c.Assignee != nil {
		assignee := c.Assignee.ID
		if c.Assignee.Email != "" {
			assignee = c.Assignee.Email
		}
		fmt.Printf("Assignee:    %s\n", assignee)
	} else {
		fmt.Printf("Assignee:    %s\n", ui.RenderMuted("unassigned"))
	}
	if c.Description != "" {
		fmt.Printf("Description: %s\n", c.Description)
	}
	if len(c.Tags) > 0 {
		names := make([]string, len(c.Tags))
		for i, tag := range c.Tags {
			names[i] = tag.Name
		}
		fmt.Printf("Tags:        %s\n", strings.Join(names, ", "))
	}
	for _, dv := range c.DropdownValues {
		fmt.Printf("%-13s%s\n", dv.DefinitionRef+":", dv.OptionRef)
	}
	if !c.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", c.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if !c.UpdatedAt.IsZero() {
		fmt.Printf("Updated At:  %s\n", c.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}

func printCaseListJSON(cases []*model.CaseSummary) {
	data, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printCaseListTable(cases []*model.CaseSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tSEVERITY\tSUMMARY\tASSIGNEE\tUPDATED")
	for _, c := range cases {
		summary := c.Summary
		if len(summary) > 50 {
			summary = summary[:47] + "..."
		}
		assignee := ""
		if c.Assignee != nil {
			assignee = c.Assignee.ID
			if c.Assignee.Email != "" {
				assignee = c.Assignee.Email
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID,
			ui.RenderStatus(c.Status),
			ui.RenderPriority(c.Priority),
			ui.RenderSeverity(c.Severity),
			summary,
			assignee,
			c.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}
	w.Flush()
}
