// Package errors defines the error taxonomy shared by the ticket lifecycle
// and helper sync: user input errors, data-consistency errors, and quota or
// capacity violations. Callers branch on these with errors.As / the Is*
// helpers rather than string matching.
package errors

import (
	"errors"
	"fmt"
)

// DuplicateTicketError indicates an insert for a channel that already has a
// live ticket row.
type DuplicateTicketError struct {
	ChannelID string
}

func (e *DuplicateTicketError) Error() string {
	return fmt.Sprintf("ticket already exists for channel %s", e.ChannelID)
}

func NewDuplicateTicketError(channelID string) *DuplicateTicketError {
	return &DuplicateTicketError{ChannelID: channelID}
}

// UnknownTicketError indicates the channel has no ticket row. It is distinct
// from any empty or zero value a query could return: "not a ticket" is never
// defaulted.
type UnknownTicketError struct {
	ChannelID string
}

func (e *UnknownTicketError) Error() string {
	return fmt.Sprintf("channel %s is not a ticket", e.ChannelID)
}

func NewUnknownTicketError(channelID string) *UnknownTicketError {
	return &UnknownTicketError{ChannelID: channelID}
}

// QuotaExceededError indicates the user already holds the maximum number of
// open tickets of the requested type.
type QuotaExceededError struct {
	UserID     string
	TicketType string
	Current    int
	Limit      int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("user %s reached the %s ticket limit (%d/%d)",
		e.UserID, e.TicketType, e.Current, e.Limit)
}

// CategoryFullError indicates the destination category is at the platform
// channel cap and cannot hold another ticket channel.
type CategoryFullError struct {
	Category string
	Count    int
	Cap      int
}

func (e *CategoryFullError) Error() string {
	return fmt.Sprintf("category %q is full (%d/%d channels)", e.Category, e.Count, e.Cap)
}

// ChallengeDoesNotExistError indicates stored helper data references a
// challenge id that no longer exists after a refresh. The caller is expected
// to trigger a challenge refresh and retry.
type ChallengeDoesNotExistError struct {
	Title string
	ID    int
}

func (e *ChallengeDoesNotExistError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("challenge %q does not exist", e.Title)
	}
	return fmt.Sprintf("challenge %d does not exist", e.ID)
}

func NewChallengeDoesNotExistError(title string, id int) *ChallengeDoesNotExistError {
	return &ChallengeDoesNotExistError{Title: title, ID: id}
}

// HelperSyncError indicates an inconsistent helper grant, such as adding a
// helper to a channel they already have access to.
type HelperSyncError struct {
	Reason string
}

func (e *HelperSyncError) Error() string {
	return fmt.Sprintf("helper sync: %s", e.Reason)
}

func NewHelperSyncError(reason string) *HelperSyncError {
	return &HelperSyncError{Reason: reason}
}

// ConfigurationError indicates a missing guild fixture (log category or
// channel). The triggering operation reports it to the user instead of
// silently dropping data.
type ConfigurationError struct {
	What string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s", e.What)
}

func NewConfigurationError(what string) *ConfigurationError {
	return &ConfigurationError{What: what}
}

func IsDuplicateTicket(err error) bool {
	var target *DuplicateTicketError
	return errors.As(err, &target)
}

func IsUnknownTicket(err error) bool {
	var target *UnknownTicketError
	return errors.As(err, &target)
}

func IsQuotaExceeded(err error) bool {
	var target *QuotaExceededError
	return errors.As(err, &target)
}

func IsCategoryFull(err error) bool {
	var target *CategoryFullError
	return errors.As(err, &target)
}

func IsChallengeDoesNotExist(err error) bool {
	var target *ChallengeDoesNotExistError
	return errors.As(err, &target)
}

func IsHelperSync(err error) bool {
	var target *HelperSyncError
	return errors.As(err, &target)
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}
