/*
Package wallet provides the deposit ledger for the application.

The wallet service handles:
- Wallet lookup (created on first access, cached)
- Deposit intents opened as payment-processor checkout sessions
- Idempotent deposit completion from client verification or webhooks
- The KYC deposit cap for accounts without approved KYC
- Withdrawal requests gated on KYC approval

Usage:

	svc := wallet.NewService(repo, profiles, documents, processor, cache, config, metrics, logger)

	// Open a checkout session for 500 in the display currency
	intent, err := svc.CreateDepositIntent(ctx, userID, decimal.NewFromInt(500))

	// Complete it (safe to call any number of times)
	result, err := svc.CompleteDeposit(ctx, intent.SessionID)

Deposit cap:

Users without approved KYC are bounded by WalletConfig.DepositCap, checked twice.
At intent creation the check covers balance + pending deposits + the new amount.
At completion it covers balance + the completing amount, under the wallet row
lock, which closes the window left by concurrent intents.

Error Handling:

Every caller-visible failure is an *errors.DomainError. Cap failures carry
"cap" and "headroom" in their details.
*/
package wallet
