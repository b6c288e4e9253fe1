// internal/app/apiclient/contributions.go
package apiclient

import (
	"context"

	"github.com/wakaladigital/wakala/internal/domain/models"
)

func (c *Client) ListContributions(ctx context.Context, groupID int64) ([]models.Contribution, error) {
	return getList[models.Contribution](ctx, c, idPath("/groups/%d/contributions", groupID), "/groups/{id}/contributions")
}

// CreateContribution records a deposit or withdrawal for the caller's
// membership in the group.
func (c *Client) CreateContribution(ctx context.Context, groupID int64, req models.CreateContributionRequest) (models.Contribution, error) {
	var out models.Contribution
	err := c.post(ctx, idPath("/groups/%d/contributions", groupID), "/groups/{id}/contributions", req, &out)
	return out, err
}
