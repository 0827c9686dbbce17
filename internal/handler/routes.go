package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, accountHandler *AccountHandler, balanceHandler *BalanceHandler, transactionHandler *TransactionHandler, cardHandler *CreditCardHandler, commitmentHandler *CommitmentHandler, incomeHandler *IncomeHandler, statementHandler *StatementHandler, dashboardHandler *DashboardHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Account routes
	accounts := api.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.GET("/:id/balances", accountHandler.GetAccountBalances)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Pool routes
	pools := api.Group("/pools")
	pools.POST("", balanceHandler.CreatePool)
	pools.PUT("/:id", balanceHandler.UpdatePool)
	pools.DELETE("/:id", balanceHandler.DeactivatePool)
	pools.POST("/:id/deposit", balanceHandler.TransferToPool)
	pools.POST("/:id/withdraw", balanceHandler.WithdrawFromPool)

	// Transfer between balances
	api.POST("/transfers", balanceHandler.Transfer)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PATCH("/:id/status", transactionHandler.UpdateTransactionStatus)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/installments", transactionHandler.CreateInstallmentPurchase)
	transactions.GET("/:id/installments", transactionHandler.GetInstallmentSummary)
	transactions.POST("/:id/cancel-installments", transactionHandler.CancelInstallment)

	// Credit card routes
	cards := api.Group("/credit-cards")
	cards.POST("", cardHandler.CreateCreditCard)
	cards.GET("", cardHandler.GetCreditCards)
	cards.GET("/:id", cardHandler.GetCreditCard)
	cards.PUT("/:id", cardHandler.UpdateCreditCard)
	cards.DELETE("/:id", cardHandler.DeleteCreditCard)
	cards.GET("/:id/bills", cardHandler.ListBills)
	cards.POST("/:id/bills/:year/:month", cardHandler.GenerateBill)

	// Bill routes
	bills := api.Group("/bills")
	bills.GET("/:id", cardHandler.GetBill)
	bills.GET("/:id/transactions", cardHandler.ListBillTransactions)
	bills.POST("/:id/payments", cardHandler.RecordBillPayment)
	bills.POST("/:id/recalculate", cardHandler.RecalculateBill)

	// Commitment routes
	commitments := api.Group("/commitments")
	commitments.POST("", commitmentHandler.CreateCommitment)
	commitments.GET("", commitmentHandler.GetCommitments)
	commitments.GET("/occurrences", commitmentHandler.GetOccurrences)
	commitments.GET("/:id", commitmentHandler.GetCommitment)
	commitments.PUT("/:id", commitmentHandler.UpdateCommitment)
	commitments.PATCH("/:id/paid", commitmentHandler.SetCommitmentPaid)
	commitments.DELETE("/:id", commitmentHandler.DeactivateCommitment)

	// Income routes
	incomes := api.Group("/incomes")
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.GET("", incomeHandler.GetIncomes)
	incomes.GET("/:id", incomeHandler.GetIncome)
	incomes.PUT("/:id", incomeHandler.UpdateIncome)
	incomes.PATCH("/:id/received", incomeHandler.SetIncomeReceived)
	incomes.DELETE("/:id", incomeHandler.DeactivateIncome)

	// Statement import routes
	statements := api.Group("/statements")
	statements.POST("/parse", statementHandler.ParseStatement)
	statements.POST("/import", statementHandler.ImportStatement)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", dashboardHandler.GetMonthlySummary)
	dashboard.GET("/categories", dashboardHandler.GetCategoryBreakdown)
	dashboard.GET("/top-descriptions", dashboardHandler.GetTopDescriptions)
	dashboard.GET("/upcoming", dashboardHandler.GetUpcoming)

	// WebSocket endpoint for real-time events
	e.GET("/ws", wsHandler.HandleWS)
}
