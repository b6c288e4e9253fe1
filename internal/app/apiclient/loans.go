// internal/app/apiclient/loans.go
package apiclient

import (
	"context"

	"github.com/wakaladigital/wakala/internal/domain/models"
)

// ListLoans returns the caller's loans.
func (c *Client) ListLoans(ctx context.Context) ([]models.Loan, error) {
	return getList[models.Loan](ctx, c, "/loans", "/loans")
}

func (c *Client) CreateLoan(ctx context.Context, req models.CreateLoanRequest) (models.Loan, error) {
	var loan models.Loan
	err := c.post(ctx, "/loans", "/loans", req, &loan)
	return loan, err
}

// UpdateLoanStatus asks the API to move the loan to status. The server owns
// the transition table and rejects illegal moves.
func (c *Client) UpdateLoanStatus(ctx context.Context, id int64, status models.LoanStatus) (models.Loan, error) {
	var loan models.Loan
	err := c.patch(ctx, idPath("/loans/%d", id), "/loans/{id}", models.UpdateLoanStatusRequest{Status: status}, &loan)
	return loan, err
}
