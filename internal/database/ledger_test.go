package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"ton-faucet-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

const testAddress = "EQDtFpEwcFAEcRe5mLVh2N6C0x-_hJEM7W61_JLnSF74p4q2"

func setupTestDb(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	service := &Service{db: db, now: time.Now}

	// Use the actual schema initialization
	if err := service.initSchema(); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func successParams(userId int64, address, txHash string) store.AttemptParams {
	return store.AttemptParams{
		UserId:       userId,
		Username:     "tester",
		TonAddress:   address,
		TokensAmount: 10000,
		Success:      true,
		TxHash:       txHash,
	}
}

func requestCount(t *testing.T, s *Service) int {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM user_requests").Scan(&count); err != nil {
		t.Fatalf("Failed to count requests: %v", err)
	}
	return count
}

func TestRecordAttempt_SuccessCreatesHistory(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	if err := service.RecordAttempt(ctx, successParams(1, testAddress, "abc123")); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}

	history, err := service.AddressHistory(ctx, testAddress)
	if err != nil {
		t.Fatalf("AddressHistory failed: %v", err)
	}
	if history == nil {
		t.Fatal("Expected address history row after successful attempt")
	}
	if history.TotalRequests != 1 {
		t.Errorf("Expected total_requests 1, got %d", history.TotalRequests)
	}
	if history.TotalTokensReceived != 10000 {
		t.Errorf("Expected total_tokens_received 10000, got %d", history.TotalTokensReceived)
	}
}

func TestRecordAttempt_AggregateAccumulates(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	if err := service.RecordAttempt(ctx, successParams(1, testAddress, "tx1")); err != nil {
		t.Fatalf("First RecordAttempt failed: %v", err)
	}

	first, err := service.AddressHistory(ctx, testAddress)
	if err != nil {
		t.Fatalf("AddressHistory failed: %v", err)
	}

	if err := service.RecordAttempt(ctx, successParams(2, testAddress, "tx2")); err != nil {
		t.Fatalf("Second RecordAttempt failed: %v", err)
	}

	history, err := service.AddressHistory(ctx, testAddress)
	if err != nil {
		t.Fatalf("AddressHistory failed: %v", err)
	}
	if history.TotalRequests != 2 {
		t.Errorf("Expected total_requests 2, got %d", history.TotalRequests)
	}
	if history.TotalTokensReceived != 20000 {
		t.Errorf("Expected total_tokens_received 20000, got %d", history.TotalTokensReceived)
	}
	if !history.FirstRequestDate.Equal(first.FirstRequestDate) {
		t.Errorf("first_request_date changed on upsert: %v -> %v", first.FirstRequestDate, history.FirstRequestDate)
	}
	if !history.LastRequestDate.After(first.LastRequestDate) && !history.LastRequestDate.Equal(first.LastRequestDate) {
		t.Errorf("last_request_date did not advance: %v -> %v", first.LastRequestDate, history.LastRequestDate)
	}
}

func TestRecordAttempt_FailureLeavesNoHistory(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	err := service.RecordAttempt(ctx, store.AttemptParams{
		UserId:       1,
		TonAddress:   testAddress,
		TokensAmount: 10000,
		Success:      false,
		ErrorMessage: "signing service timeout",
	})
	if err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}

	history, err := service.AddressHistory(ctx, testAddress)
	if err != nil {
		t.Fatalf("AddressHistory failed: %v", err)
	}
	if history != nil {
		t.Error("Failed attempt must not create an address history row")
	}

	received, err := service.HasAddressReceived(ctx, testAddress)
	if err != nil {
		t.Fatalf("HasAddressReceived failed: %v", err)
	}
	if received {
		t.Error("HasAddressReceived should be false after a failed attempt")
	}
}

func TestRecordAttempt_RejectsInconsistentOutcome(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	cases := []store.AttemptParams{
		{UserId: 1, TonAddress: testAddress, TokensAmount: 10000, Success: true},
		{UserId: 1, TonAddress: testAddress, TokensAmount: 10000, Success: true, TxHash: "tx", ErrorMessage: "boom"},
		{UserId: 1, TonAddress: testAddress, TokensAmount: 10000, Success: false},
		{UserId: 1, TonAddress: testAddress, TokensAmount: 10000, Success: false, TxHash: "tx", ErrorMessage: "boom"},
	}
	for i, params := range cases {
		if err := service.RecordAttempt(ctx, params); err == nil {
			t.Errorf("case %d: expected validation error, got nil", i)
		}
	}

	if got := requestCount(t, service); got != 0 {
		t.Errorf("Expected no rows after rejected params, got %d", got)
	}
}

func TestCountSuccessfulToday_QuotaWindow(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	// Two successes and one failure today for user 1, one success for user 2.
	if err := service.RecordAttempt(ctx, successParams(1, testAddress, "tx1")); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}
	if err := service.RecordAttempt(ctx, successParams(1, testAddress, "tx2")); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}
	if err := service.RecordAttempt(ctx, store.AttemptParams{
		UserId: 1, TonAddress: testAddress, TokensAmount: 10000,
		Success: false, ErrorMessage: "transfer failed",
	}); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}
	if err := service.RecordAttempt(ctx, successParams(2, testAddress, "tx3")); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}

	// A success from yesterday must not count against today's window.
	restore := service.now
	service.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }
	if err := service.RecordAttempt(ctx, successParams(1, testAddress, "tx-old")); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}
	service.now = restore

	count, err := service.CountSuccessfulToday(ctx, 1)
	if err != nil {
		t.Fatalf("CountSuccessfulToday failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 successes today for user 1, got %d", count)
	}
}

func TestRemainingQuota(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := service.RecordAttempt(ctx, successParams(1, testAddress, "tx"+string(rune('a'+i)))); err != nil {
			t.Fatalf("RecordAttempt failed: %v", err)
		}
	}

	remaining, err := service.RemainingQuota(ctx, 1, 3)
	if err != nil {
		t.Fatalf("RemainingQuota failed: %v", err)
	}
	if remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", remaining)
	}

	// Below the cap the difference is reported as-is.
	remaining, err = service.RemainingQuota(ctx, 1, 5)
	if err != nil {
		t.Fatalf("RemainingQuota failed: %v", err)
	}
	if remaining != 2 {
		t.Errorf("Expected remaining 2, got %d", remaining)
	}
}

func TestGlobalStatistics_EmptyLedger(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	stats, err := service.GlobalStatistics(context.Background())
	if err != nil {
		t.Fatalf("GlobalStatistics failed: %v", err)
	}
	if stats.TotalSuccessful != 0 || stats.TotalTokens != 0 || stats.UniqueUsers != 0 || stats.UniqueAddresses != 0 {
		t.Errorf("Expected all-zero stats on empty ledger, got %+v", stats)
	}
}

func TestGlobalStatistics_Counters(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	otherAddress := "UQDtFpEwcFAEcRe5mLVh2N6C0x-_hJEM7W61_JLnSF74p4q2"

	if err := service.RecordAttempt(ctx, successParams(1, testAddress, "tx1")); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}
	if err := service.RecordAttempt(ctx, successParams(1, otherAddress, "tx2")); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}
	if err := service.RecordAttempt(ctx, successParams(2, testAddress, "tx3")); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}
	if err := service.RecordAttempt(ctx, store.AttemptParams{
		UserId: 3, TonAddress: testAddress, TokensAmount: 10000,
		Success: false, ErrorMessage: "transfer failed",
	}); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}

	stats, err := service.GlobalStatistics(ctx)
	if err != nil {
		t.Fatalf("GlobalStatistics failed: %v", err)
	}
	if stats.TotalSuccessful != 3 {
		t.Errorf("Expected 3 successful, got %d", stats.TotalSuccessful)
	}
	if stats.TotalTokens != 30000 {
		t.Errorf("Expected 30000 tokens, got %d", stats.TotalTokens)
	}
	if stats.UniqueUsers != 2 {
		t.Errorf("Expected 2 unique users, got %d", stats.UniqueUsers)
	}
	if stats.UniqueAddresses != 2 {
		t.Errorf("Expected 2 unique addresses, got %d", stats.UniqueAddresses)
	}
}

func TestStorageErrorSentinel(t *testing.T) {
	service, cleanup := setupTestDb(t)
	cleanup() // closed database forces an I/O failure

	_, err := service.CountSuccessfulToday(context.Background(), 1)
	if err == nil {
		t.Fatal("Expected error on closed database")
	}
	if !errors.Is(err, store.ErrStorage) {
		t.Errorf("Expected store.ErrStorage, got %v", err)
	}

	err = service.RecordAttempt(context.Background(), successParams(1, testAddress, "tx"))
	if !errors.Is(err, store.ErrStorage) {
		t.Errorf("Expected store.ErrStorage from RecordAttempt, got %v", err)
	}
}
