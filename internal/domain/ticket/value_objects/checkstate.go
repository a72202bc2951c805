package valueobjects

import "fmt"

// CheckState drives the two-stage inactivity auto-close:
//
//	0 = untouched, nothing has happened
//	1 = the nudge has been sent
//	2 = the ticket is exempt from auto-close
//
// The state is only meaningful while the ticket is open.
type CheckState int

const (
	CheckUntouched CheckState = 0
	CheckNudged    CheckState = 1
	CheckExempt    CheckState = 2
)

func (c CheckState) IsValid() bool {
	return c == CheckUntouched || c == CheckNudged || c == CheckExempt
}

func (c CheckState) IsExempt() bool {
	return c == CheckExempt
}

func NewCheckState(n int) (CheckState, error) {
	c := CheckState(n)
	if !c.IsValid() {
		return 0, fmt.Errorf("invalid check state: %d", n)
	}
	return c, nil
}
