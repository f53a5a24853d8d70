package delivery

import (
	"strings"
	"time"
)

// Task progress values as they arrive from the document store.
const (
	ProgressPending    = "PENDING"
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
	ProgressFailed     = "FAILED"
	ProgressCancelled  = "CANCELLED"
)

// Bac types. A bac is a reusable delivery crate.
const (
	BacSec     = "BAC_SEC"
	BacFrais   = "BAC_FRAIS"
	BacSurgele = "BAC_SURGELE"
)

// Article (bac line item) statuses.
const (
	ArticleScanned = "SCANNED"
	ArticleMissing = "MISSING"
	ArticleLoaded  = "LOADED"
)

// Article is a single bac line item on a task.
type Article struct {
	BacType  string  `json:"bacType"`
	Status   string  `json:"status"`
	WeightKg float64 `json:"weightKg,omitempty"`
}

// Task is one delivery stop (a "tache") within a round.
type Task struct {
	ID              string     `json:"id"`
	HubName         string     `json:"hubName"`
	RoundName       string     `json:"roundName,omitempty"`
	Sequence        int        `json:"sequence,omitempty"`
	WindowStart     *time.Time `json:"windowStart,omitempty"`
	WindowEnd       *time.Time `json:"windowEnd,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	Progress        string     `json:"progress"`
	Attempts        int        `json:"attempts,omitempty"`
	DriverFirstName string     `json:"driverFirstName,omitempty"`
	DriverLastName  string     `json:"driverLastName,omitempty"`
	CustomerName    string     `json:"customerName,omitempty"`
	CustomerPhone   string     `json:"customerPhone,omitempty"`
	Articles        []Article  `json:"articles,omitempty"`
	Rating          *int       `json:"rating,omitempty"`
	Comment         string     `json:"comment,omitempty"`
	ForcedArrival   bool       `json:"forcedArrival,omitempty"`
	Instructions    string     `json:"instructions,omitempty"`
}

// IsCompleted reports whether the delivery was made.
func (t Task) IsCompleted() bool {
	return t.Progress == ProgressCompleted
}

// IsFailed reports whether the delivery attempt ended without a delivery.
func (t Task) IsFailed() bool {
	return t.Progress == ProgressFailed || t.Progress == ProgressCancelled
}

// IsClosed reports whether the task reached a terminal progress.
// Rate denominators that only make sense for finished work use this subset.
func (t Task) IsClosed() bool {
	return t.IsCompleted() || t.IsFailed()
}

// IsUnplanned reports whether the task lacks a round assignment.
func (t Task) IsUnplanned() bool {
	return strings.TrimSpace(t.RoundName) == ""
}

// DriverFullName joins the first and last name, tolerating either being empty.
func (t Task) DriverFullName() string {
	return strings.TrimSpace(strings.TrimSpace(t.DriverFirstName) + " " + strings.TrimSpace(t.DriverLastName))
}

// Round is one vehicle route (a "tournee").
type Round struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Date               time.Time  `json:"date"`
	HubName            string     `json:"hubName"`
	Driver             string     `json:"driver,omitempty"`
	Status             string     `json:"status,omitempty"`
	OrderCount         int        `json:"orderCount,omitempty"`
	PlannedDurationSec int64      `json:"plannedDurationSec,omitempty"`
	FinishedAt         *time.Time `json:"hasFinished,omitempty"`
	RealizedSec        *int64     `json:"hasLasted,omitempty"`
}

// DepotRule maps hub-name keywords to a depot label. Rules are evaluated in
// slice order; the first match wins.
type DepotRule struct {
	Name     string   `json:"name"`
	Keywords []string `json:"matcher"`
}

// MatchKeywords implements grouping.KeywordRule.
func (r DepotRule) MatchKeywords() []string { return r.Keywords }

// CarrierRule maps driver/round keywords to a carrier label. Same first-match
// precedence as DepotRule.
type CarrierRule struct {
	Carrier  string   `json:"carrier"`
	Keywords []string `json:"matcher"`
}

// MatchKeywords implements grouping.KeywordRule.
func (r CarrierRule) MatchKeywords() []string { return r.Keywords }

// Forecast rule kinds and the time-of-day categories they produce.
const (
	ForecastRuleTime = "time"
	ForecastRuleType = "type"

	CategoryMatin = "Matin"
	CategorySoir  = "Soir"
)

// ForecastRule buckets rounds by time of day ("time" rules, substring match)
// or business unit ("type" rules, prefix match). Only active rules apply.
type ForecastRule struct {
	Type     string   `json:"type"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
	IsActive bool     `json:"isActive"`
}

// MatchKeywords implements grouping.KeywordRule.
func (r ForecastRule) MatchKeywords() []string { return r.Keywords }

// CustomerComment is free-text customer feedback attached to a task.
type CustomerComment struct {
	TaskID    string     `json:"taskId"`
	RoundName string     `json:"roundName,omitempty"`
	Text      string     `json:"text"`
	Rating    *int       `json:"rating,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// NpsResponse is a single 0-10 satisfaction answer.
type NpsResponse struct {
	Score   int        `json:"score"`
	Carrier string     `json:"carrier,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
	Comment string     `json:"comment,omitempty"`
}

// ProcessedVerbatim is the output of the external verbatim categorization.
// The core only counts these; categorization itself is not done here.
type ProcessedVerbatim struct {
	Category  string `json:"category"`
	Sentiment string `json:"sentiment,omitempty"`
	Text      string `json:"text,omitempty"`
}
