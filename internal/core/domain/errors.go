package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Business errors
var (
	ErrBusinessNotFound      = errors.New("business not found")
	ErrBusinessAlreadyExists = errors.New("business already exists")
)

// Loyalty errors
var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrInsufficientStamps  = errors.New("insufficient stamps for reward")
	ErrInvalidPhoneNumber  = errors.New("invalid phone number")
	ErrInvalidLoyaltyRange = errors.New("visits required must be between 1 and 50")
)
