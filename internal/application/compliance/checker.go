package compliance

import (
	"context"
	"time"

	"github.com/turtacn/protoscribe/internal/domain/guideline"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/pkg/textutil"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// Status thresholds on keyword confidence.
const (
	passThreshold    = 0.8
	warningThreshold = 0.4

	// generalSearchDamping discounts matches found outside the item's
	// relevant sections.
	generalSearchDamping = 0.7

	foundTextLimit = 200
)

const (
	warningIssue = "Item may be present but could be more explicit"
	failIssue    = "Item not found or not adequately addressed"
)

// Checker scores protocol content against the registered guideline
// checklists.
type Checker struct {
	registry *guideline.Registry
	log      logging.Logger
}

// NewChecker builds a checker over the given guideline registry.
func NewChecker(registry *guideline.Registry, log logging.Logger) *Checker {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Checker{registry: registry, log: log.Named("compliance")}
}

// Check evaluates content against both CONSORT and SPIRIT and combines the
// results into one report. A nil section map is treated as a single section
// holding the full content.
func (c *Checker) Check(ctx context.Context, content string, sections map[string]string) (*ptypes.ComplianceReport, error) {
	if sections == nil {
		sections = map[string]string{"content": content}
	}

	consort, err := c.registry.Get(ptypes.GuidelineCONSORT)
	if err != nil {
		return nil, err
	}
	spirit, err := c.registry.Get(ptypes.GuidelineSPIRIT)
	if err != nil {
		return nil, err
	}

	consortReport := c.checkGuideline(ctx, content, sections, consort)
	spiritReport := c.checkGuideline(ctx, content, sections, spirit)

	totalItems := len(consortReport.Items) + len(spiritReport.Items)
	passedItems := countPassed(consortReport.Items) + countPassed(spiritReport.Items)

	var overall float64
	if totalItems > 0 {
		overall = textutil.Round1(float64(passedItems) / float64(totalItems) * 100)
	}

	report := &ptypes.ComplianceReport{
		Score:          overall,
		ConsortScore:   consortReport.Score,
		SpiritScore:    spiritReport.Score,
		TotalItems:     totalItems,
		PassedItems:    passedItems,
		FailedItems:    append(append([]ptypes.FailedItem{}, consortReport.FailedItems...), spiritReport.FailedItems...),
		Warnings:       append(append([]ptypes.WarningItem{}, consortReport.Warnings...), spiritReport.Warnings...),
		ConsortDetails: consortReport,
		SpiritDetails:  spiritReport,
		AnalyzedAt:     time.Now().UTC(),
	}

	c.log.Info("compliance check complete",
		logging.Float64("score", report.Score),
		logging.Int("total_items", totalItems),
		logging.Int("passed_items", passedItems),
		logging.Int("failed_items", len(report.FailedItems)))
	return report, nil
}

func (c *Checker) checkGuideline(_ context.Context, content string, sections map[string]string, checklist *guideline.Checklist) ptypes.GuidelineReport {
	report := ptypes.GuidelineReport{
		Guideline:   checklist.Name,
		Items:       make([]ptypes.ItemCheck, 0, len(checklist.Items)),
		FailedItems: []ptypes.FailedItem{},
		Warnings:    []ptypes.WarningItem{},
	}

	for _, item := range checklist.Items {
		check := checkItem(content, sections, item)
		report.Items = append(report.Items, check)

		switch check.Status {
		case ptypes.CheckFail:
			report.FailedItems = append(report.FailedItems, ptypes.FailedItem{
				ItemID:      item.ID,
				Description: item.Description,
				Section:     item.Section,
				Guideline:   checklist.Name,
			})
		case ptypes.CheckWarning:
			report.Warnings = append(report.Warnings, ptypes.WarningItem{
				ItemID:      item.ID,
				Description: item.Description,
				Issue:       check.Issue,
				Guideline:   checklist.Name,
			})
		}
	}

	if len(report.Items) > 0 {
		report.Score = textutil.Round1(float64(countPassed(report.Items)) / float64(len(report.Items)) * 100)
	}
	return report
}

// checkItem searches the item's relevant sections first and takes the first
// section that matches at all. Only when no relevant section matches is the
// whole document searched, with the confidence damped.
func checkItem(content string, sections map[string]string, item guideline.ChecklistItem) ptypes.ItemCheck {
	keywords := itemKeywords(item.Description)
	relevant := relevantSections(sections, item.Section)

	var (
		foundText  string
		confidence float64
	)
	for _, name := range sortedNames(relevant) {
		match := searchKeywords(relevant[name], keywords)
		if match.Found {
			foundText = match.Context
			confidence = match.Confidence
			break
		}
	}
	if foundText == "" {
		match := searchKeywords(content, keywords)
		if match.Found {
			foundText = match.Context
			confidence = match.Confidence * generalSearchDamping
		}
	}

	check := ptypes.ItemCheck{
		ItemID:      item.ID,
		Description: item.Description,
		Confidence:  confidence,
		FoundText:   textutil.Truncate(foundText, foundTextLimit),
	}
	switch {
	case confidence >= passThreshold:
		check.Status = ptypes.CheckPass
	case confidence >= warningThreshold:
		check.Status = ptypes.CheckWarning
		check.Issue = warningIssue
	default:
		check.Status = ptypes.CheckFail
		check.Issue = failIssue
	}
	return check
}

func countPassed(items []ptypes.ItemCheck) int {
	n := 0
	for _, item := range items {
		if item.Status == ptypes.CheckPass {
			n++
		}
	}
	return n
}
