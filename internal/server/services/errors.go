package services

import (
	"fmt"

	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
)

// Client-facing messages.
const (
	msgMissingFields    = "please fill in all fields"
	msgBadPhone         = "phone number must be exactly 8 digits"
	msgShortPassword    = "password must be at least 6 characters"
	msgPasswordMismatch = "passwords do not match"
	msgUsernameTaken    = "this username is already taken"
	msgPhoneTaken       = "this phone number is already registered"
	msgBadLogin         = "incorrect username or phone number"
	msgBadPassword      = "incorrect password"
	msgMissingRefresh   = "refresh token is required"
	msgRevokedRefresh   = "token has been revoked, please log in again"
	msgInvalidRefresh   = "token is invalid or expired, please log in again"
	msgUserGone         = "user does not exist"
	msgQuestionFields   = "title and content are required"
	msgAnswerContent    = "answer content is required"
	msgQuestionNotFound = "question not found"
	msgAnswerNotFound   = "answer not found"
	msgAlreadyThanked   = "already thanked"
)

// internal marks err as an unexpected failure while keeping its detail for logs.
func internal(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, common.ErrInternal, err)
}
