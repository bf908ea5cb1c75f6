// Package email delivers transactional messages through a pluggable
// EmailSender.
//
// Three drivers are available, selected by Config.Provider:
//   - "postmark" via github.com/mrz1836/postmark
//   - "sendgrid" via github.com/sendgrid/sendgrid-go
//   - "dev" writes every message to Config.DevDir as .html/.txt/.json files
//
// All drivers validate SendEmailParams first and wrap delivery failures with
// ErrFailedToSendEmail.
package email
