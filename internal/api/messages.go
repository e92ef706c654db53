package api

import (
	"fmt"

	"ton-faucet-go/internal/faucet"
)

const (
	msgMissingAddress = "Please specify a TON address. Usage: POST /api/v1/faucet/requests with a user_id and address."

	msgInvalidAddress     = "Invalid TON address format. Address must start with EQ or UQ and contain 48 characters."
	msgAlreadyFunded      = "This address already has tokens. Tokens are only distributed to new addresses."
	msgTransferFailed     = "Error sending tokens. Please try again later."
	msgServiceUnavailable = "Service temporarily unavailable. Please try again later."
	msgBusy               = "The faucet is currently processing another request. Please wait a few seconds and try again."
	msgStorageError       = "An internal error occurred while recording the request. Please contact the administrator."
)

func messageFor(result faucet.Result) string {
	switch result.Outcome {
	case faucet.OutcomeSuccess:
		return fmt.Sprintf("Sent %d tokens to %s. Transaction: %s. Remaining requests today: %d of %d.",
			result.Amount, result.TonAddress, result.TxHash, result.Remaining, result.MaxPerDay)
	case faucet.OutcomeBusy:
		return msgBusy
	case faucet.OutcomeInvalidAddress:
		return msgInvalidAddress
	case faucet.OutcomeLimitReached:
		return fmt.Sprintf("You have reached your daily limit (%d of %d). Please try again tomorrow.",
			result.MaxPerDay, result.MaxPerDay)
	case faucet.OutcomeAlreadyFunded:
		return msgAlreadyFunded
	case faucet.OutcomeServiceUnavailable:
		return msgServiceUnavailable
	case faucet.OutcomeTransferFailed:
		return msgTransferFailed
	default:
		return msgStorageError
	}
}
