package dispatch

import "fmt"

// DeliveryError represents a failed delivery attempt. Deliveries are not retried.
type DeliveryError struct {
	Channel string
	Message string
	Cause   error
}

func (e *DeliveryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s delivery: %s: %v", e.Channel, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s delivery: %s", e.Channel, e.Message)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}
