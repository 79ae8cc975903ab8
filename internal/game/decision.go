package game

import "fmt"

// Action is what the player does with an inbox email
type Action string

const (
	ActionOpen   Action = "open"
	ActionDelete Action = "delete"
	ActionReport Action = "report"
)

// ParseAction converts user input to an Action
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionOpen, ActionDelete, ActionReport:
		return a, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownAction)
	}
}

// Label is the past-tense label shown next to a processed email
func (a Action) Label() string {
	switch a {
	case ActionOpen:
		return "Opened"
	case ActionDelete:
		return "Deleted"
	case ActionReport:
		return "Reported"
	default:
		return ""
	}
}

// Decision is the verdict for one inbox action
type Decision struct {
	Correct bool
	// Best marks the preferred handling; deleting phishing is accepted
	// but reporting it is better.
	Best   bool
	Points int
}

type decisionKey struct {
	phishing bool
	action   Action
}

type decisionRow struct {
	correct bool
	best    bool
}

var decisionTable = map[decisionKey]decisionRow{
	{true, ActionReport}:  {correct: true, best: true},
	{true, ActionDelete}:  {correct: true},
	{true, ActionOpen}:    {},
	{false, ActionOpen}:   {correct: true, best: true},
	{false, ActionDelete}: {},
	{false, ActionReport}: {},
}

// Decide looks up the outcome of taking action on an email. Correct
// actions are worth points.
func Decide(isPhishing bool, action Action, points int) (Decision, error) {
	row, ok := decisionTable[decisionKey{isPhishing, action}]
	if !ok {
		return Decision{}, fmt.Errorf("%q: %w", action, ErrUnknownAction)
	}
	d := Decision{Correct: row.correct, Best: row.best}
	if d.Correct {
		d.Points = points
	}
	return d, nil
}
