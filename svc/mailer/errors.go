package mailer

import "errors"

var (
	ErrTemplateNotFound = errors.New("mailer: template not found")
	ErrInvalidRecipient = errors.New("mailer: invalid recipient")
	ErrDeliveryFailed   = errors.New("mailer: delivery failed")
)
