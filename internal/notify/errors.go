package notify

import (
	"errors"
	"fmt"

	"github.com/ortelius/obsolescence-backend/model"
)

// Error kinds surfaced by the dispatcher
var (
	// ErrConfigurationMissing means the channel has no server or webhook configured
	ErrConfigurationMissing = errors.New("notification channel not configured")
	// ErrDeliveryFailed means the transport failed or the upstream answered with an error
	ErrDeliveryFailed = errors.New("notification delivery failed")
	// ErrNotFound means the referenced application does not exist
	ErrNotFound = errors.New("application not found")
	// ErrNoRecipients means an email was requested without any address
	ErrNoRecipients = errors.New("no recipients")
)

// DeliveryError carries the channel and kind of a failed send
type DeliveryError struct {
	Channel model.Channel
	Kind    error
	Err     error
}

func (e *DeliveryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Channel, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Channel, e.Kind, e.Err)
}

// Is matches the error kind so errors.Is(err, ErrDeliveryFailed) works
func (e *DeliveryError) Is(target error) bool {
	return target == e.Kind
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func configurationMissing(channel model.Channel, what string) error {
	return &DeliveryError{Channel: channel, Kind: ErrConfigurationMissing, Err: errors.New(what)}
}

func deliveryFailed(channel model.Channel, err error) error {
	return &DeliveryError{Channel: channel, Kind: ErrDeliveryFailed, Err: err}
}
