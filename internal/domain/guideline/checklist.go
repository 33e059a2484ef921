// Package guideline holds reporting-guideline checklists (CONSORT, SPIRIT)
// and a registry that serves them to the compliance engine. Checklists can be
// overridden by JSON files on disk; built-in defaults cover the core items.
package guideline

import (
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// ChecklistItem is a single checkable requirement from a reporting guideline.
type ChecklistItem struct {
	ID          string `json:"id"`
	Section     string `json:"section"`
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
}

// Checklist is a versioned set of items for one guideline.
type Checklist struct {
	Name    ptypes.GuidelineName `json:"name"`
	Version string               `json:"version"`
	Items   []ChecklistItem      `json:"items"`
}

// Item returns the item with the given ID, or nil.
func (c *Checklist) Item(id string) *ChecklistItem {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// DefaultCONSORT returns the built-in CONSORT 2010 checklist subset.
func DefaultCONSORT() *Checklist {
	return &Checklist{
		Name:    ptypes.GuidelineCONSORT,
		Version: "2010",
		Items: []ChecklistItem{
			{ID: "1a", Section: "Title and abstract", Description: "Identification as a randomised trial in the title"},
			{ID: "1b", Section: "Title and abstract", Description: "Structured summary of trial design, methods, results, and conclusions"},
			{ID: "2a", Section: "Introduction", Description: "Scientific background and explanation of rationale"},
			{ID: "2b", Section: "Introduction", Description: "Specific objectives or hypotheses"},
		},
	}
}

// DefaultSPIRIT returns the built-in SPIRIT 2013 checklist subset.
func DefaultSPIRIT() *Checklist {
	return &Checklist{
		Name:    ptypes.GuidelineSPIRIT,
		Version: "2013",
		Items: []ChecklistItem{
			{ID: "1", Section: "Administrative information", Description: "Descriptive title identifying the study design, population, interventions"},
			{ID: "2a", Section: "Administrative information", Description: "Trial identifier and registry name"},
			{ID: "3", Section: "Administrative information", Description: "Protocol version and date"},
		},
	}
}
