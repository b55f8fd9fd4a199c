package notify

import "context"

// Notifier delivers the signup confirmation code to a user.
type Notifier interface {
	// SendConfirmationCode sends the raw code to the given address.
	SendConfirmationCode(ctx context.Context, toEmail, username, code string) error
}
