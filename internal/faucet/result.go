package faucet

// Outcome tags the terminal state of one RequestTokens attempt. Every call
// ends in exactly one of these; no error escapes the pipeline.
type Outcome string

const (
	OutcomeSuccess            Outcome = "success"
	OutcomeBusy               Outcome = "busy"
	OutcomeInvalidAddress     Outcome = "invalid_address"
	OutcomeLimitReached       Outcome = "limit_reached"
	OutcomeAlreadyFunded      Outcome = "already_funded"
	OutcomeServiceUnavailable Outcome = "service_unavailable"
	OutcomeTransferFailed     Outcome = "transfer_failed"
	OutcomeStorageError       Outcome = "storage_error"
)

// Result carries the outcome kind plus the data the front-end needs to render
// it. The pipeline never formats user-facing text itself.
type Result struct {
	Outcome    Outcome
	Amount     int64
	TonAddress string
	TxHash     string
	Remaining  int
	MaxPerDay  int
	Reason     string
}
