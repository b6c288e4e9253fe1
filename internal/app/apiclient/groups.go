// internal/app/apiclient/groups.go
package apiclient

import (
	"context"

	"github.com/wakaladigital/wakala/internal/domain/models"
)

// ListGroups returns the groups visible to the caller.
func (c *Client) ListGroups(ctx context.Context) ([]models.SavingsGroup, error) {
	return getList[models.SavingsGroup](ctx, c, "/groups", "/groups")
}

func (c *Client) GetGroup(ctx context.Context, id int64) (models.SavingsGroup, error) {
	var g models.SavingsGroup
	err := c.get(ctx, idPath("/groups/%d", id), "/groups/{id}", &g)
	return g, err
}

// CreateGroup creates a group; the caller becomes its admin on the server side.
func (c *Client) CreateGroup(ctx context.Context, req models.CreateGroupRequest) (models.SavingsGroup, error) {
	var g models.SavingsGroup
	err := c.post(ctx, "/groups", "/groups", req, &g)
	return g, err
}

// JoinGroup adds the caller to the group as a member.
func (c *Client) JoinGroup(ctx context.Context, id int64) error {
	return c.post(ctx, idPath("/groups/%d/join_group", id), "/groups/{id}/join_group", struct{}{}, nil)
}

// ListMembers returns the group's memberships with user records embedded.
func (c *Client) ListMembers(ctx context.Context, id int64) ([]models.MemberDetail, error) {
	return getList[models.MemberDetail](ctx, c, idPath("/groups/%d/members", id), "/groups/{id}/members")
}
