package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultGoalIcon is used when a goal is created without an icon.
const DefaultGoalIcon = "fas fa-bullseye"

// Goal is a savings target. Progress is computed by the backend and trusted as given;
// Current may exceed Target.
type Goal struct {
	Deadline Date            `json:"deadline"`
	Title    string          `json:"title"`
	Icon     string          `json:"icon"`
	Target   decimal.Decimal `json:"target"`
	Current  decimal.Decimal `json:"current"`
	ID       int             `json:"id"`
	Progress float64         `json:"progress"`
}

// DaysLeft returns the whole days until the deadline, rounded up. Negative once overdue.
func (g Goal) DaysLeft(now time.Time) int {
	return int(math.Ceil(g.Deadline.Sub(now).Hours() / 24))
}

// Completed reports whether the goal has reached its target.
func (g Goal) Completed() bool {
	return g.Progress >= 100
}

// GoalPayload is the body of a goal create call.
type GoalPayload struct {
	Deadline Date            `json:"deadline"`
	Title    string          `json:"title"`
	Icon     string          `json:"icon,omitempty"`
	Target   decimal.Decimal `json:"target"`
	Current  decimal.Decimal `json:"current"`
}

// GoalProgressPayload is the body of a goal update call.
type GoalProgressPayload struct {
	Current decimal.Decimal `json:"current"`
}
