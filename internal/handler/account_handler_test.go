package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/centavo-app/centavo-backend/internal/testutil"
)

func newAccountHandler() (*AccountHandler, *testutil.MockBalanceRepository) {
	balanceRepo := testutil.NewMockBalanceRepository()
	accountRepo := testutil.NewMockAccountRepository(balanceRepo)
	transactionRepo := testutil.NewMockTransactionRepository(balanceRepo)
	accountService := service.NewAccountService(accountRepo, balanceRepo)
	balanceService := service.NewBalanceService(balanceRepo, transactionRepo)
	return NewAccountHandler(accountService, balanceService), balanceRepo
}

func TestCreateAccountHandler_Success(t *testing.T) {
	e := echo.New()
	handler, balanceRepo := newAccountHandler()

	reqBody := `{"name": "Nubank", "institution": "Nu Pagamentos", "kind": "checking", "initialBalance": "1000.50"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var account domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if account.Name != "Nubank" {
		t.Errorf("Expected name 'Nubank', got %s", account.Name)
	}
	if account.Kind != domain.AccountKindChecking {
		t.Errorf("Expected kind 'checking', got %s", account.Kind)
	}

	main, err := balanceRepo.GetMainByAccount(account.ID)
	if err != nil {
		t.Fatalf("Expected main balance, got %v", err)
	}
	if !main.CurrentAmount.Equal(decimal.NewFromFloat(1000.50)) {
		t.Errorf("Expected main balance 1000.50, got %s", main.CurrentAmount.String())
	}
}

func TestCreateAccountHandler_ValidationError(t *testing.T) {
	e := echo.New()
	handler, _ := newAccountHandler()

	reqBody := `{"name": "", "kind": "checking"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	// Unmarshalling the whole body also proves the response holds a single
	// JSON document, not a validation body with a 500 appended.
	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem details: %v", err)
	}
	if problem.Status != http.StatusBadRequest {
		t.Errorf("Expected problem status 400, got %d", problem.Status)
	}
}

func TestUpdateAccountHandler_ValidationError(t *testing.T) {
	e := echo.New()
	handler, _ := newAccountHandler()

	reqBody := `{"name": "Nubank", "kind": "offshore"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/accounts/1", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := handler.UpdateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem details: %v", err)
	}
	if problem.Status != http.StatusBadRequest {
		t.Errorf("Expected problem status 400, got %d", problem.Status)
	}
}

func TestCreateAccountHandler_BadInitialBalance(t *testing.T) {
	e := echo.New()
	handler, _ := newAccountHandler()

	reqBody := `{"name": "Wallet", "kind": "wallet", "initialBalance": "abc"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetAccountHandler_NotFound(t *testing.T) {
	e := echo.New()
	handler, _ := newAccountHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := handler.GetAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetAccountHandler_InvalidID(t *testing.T) {
	e := echo.New()
	handler, _ := newAccountHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if err := handler.GetAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteAccountHandler_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newAccountHandler()

	// Create first.
	reqBody := `{"name": "Temp", "kind": "checking"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler.CreateAccount(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var account domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/1", nil)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := handler.DeleteAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}

func TestGetAccountBalancesHandler(t *testing.T) {
	e := echo.New()
	handler, _ := newAccountHandler()

	reqBody := `{"name": "Main", "kind": "checking", "initialBalance": "500.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler.CreateAccount(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1/balances", nil)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := handler.GetAccountBalances(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var balances domain.AccountBalances
	if err := json.Unmarshal(rec.Body.Bytes(), &balances); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !balances.Available.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected available 500, got %s", balances.Available.String())
	}
}
