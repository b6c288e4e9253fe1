// internal/app/apiclient/investments.go
package apiclient

import (
	"context"

	"github.com/wakaladigital/wakala/internal/domain/models"
)

// ListInvestments returns the investments held by one group.
func (c *Client) ListInvestments(ctx context.Context, groupID int64) ([]models.Investment, error) {
	return getList[models.Investment](ctx, c, idPath("/groups/%d/investments", groupID), "/groups/{id}/investments")
}

func (c *Client) CreateInvestment(ctx context.Context, groupID int64, req models.CreateInvestmentRequest) (models.Investment, error) {
	var inv models.Investment
	err := c.post(ctx, idPath("/groups/%d/investments", groupID), "/groups/{id}/investments", req, &inv)
	return inv, err
}
