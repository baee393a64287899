package domain

import (
	"errors"
	"fmt"
)

// Account errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrVersionConflict    = errors.New("user was modified concurrently")
	ErrUsernameImmutable  = errors.New("username cannot be changed")
	ErrInvalidUsername    = errors.New("username must be 3-20 letters, digits, '_' or '-'")
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrSamePassword       = errors.New("new password must differ from the current one")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidArgument    = errors.New("invalid argument")
)

// Token errors. Every specific rejection except expiry wraps ErrTokenInvalid,
// so errors.Is(err, ErrTokenInvalid) matches the whole class.
var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")

	ErrInvalidSignature = fmt.Errorf("%w: signature mismatch", ErrTokenInvalid)
	ErrTokenMalformed   = fmt.Errorf("%w: malformed", ErrTokenInvalid)
	ErrWrongTokenType   = fmt.Errorf("%w: wrong token type", ErrTokenInvalid)
	ErrUnknownSubject   = fmt.Errorf("%w: unknown subject", ErrTokenInvalid)
	ErrTokenReused      = fmt.Errorf("%w: refresh token already used", ErrTokenInvalid)
)
