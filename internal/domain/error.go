package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyExists   = errors.New("entity already exists")

	// Purchase-flow errors
	ErrNotConfigured            = errors.New("payment service not configured")
	ErrUnauthenticated          = errors.New("user identity required")
	ErrAlreadySubscribed        = errors.New("user already has an active pro subscription")
	ErrInvalidSignature         = errors.New("invalid payment signature")
	ErrOrderNotFound            = errors.New("payment record not found for order")
	ErrPlanConfigMissing        = errors.New("plan configuration missing for stored billing cycle")
	ErrGateway                  = errors.New("payment gateway request failed")
	ErrSubscriptionUpdateFailed = errors.New("failed to update subscription")

	// Storage-layer errors
	ErrOperationFailed    = errors.New("database operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid database execution context")
	ErrLockNotAcquired    = errors.New("could not acquire lock")
)
