// Package errors provides the error taxonomy shared by every legalassist
// component. Each failure is an *AppError carrying a machine-readable code,
// an HTTP status hint and the preserved underlying cause, so callers can
// branch with errors.Is / errors.As or HasCode.
package errors
