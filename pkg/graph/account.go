package graph

import (
	"context"

	"igcrawler/pkg/errors"
)

// ResolveBusinessAccount discovers the Instagram business account id
// linked to the token's first Facebook page.
func (c *Client) ResolveBusinessAccount(ctx context.Context, token string) (string, error) {
	var accounts accountsEnvelope
	if _, err := c.GetJSON(ctx, AccountsURL(c.baseURL, token), &accounts); err != nil {
		return "", err
	}
	if len(accounts.Data) == 0 {
		return "", errors.Data("no linked Facebook page for this token")
	}

	pageID := accounts.Data[0].ID
	var info pageInfo
	if _, err := c.GetJSON(ctx, PageBusinessAccountURL(c.baseURL, pageID, token), &info); err != nil {
		return "", err
	}
	if info.InstagramBusinessAccount == nil || info.InstagramBusinessAccount.ID == "" {
		return "", errors.Data("page has no linked Instagram business account")
	}
	return info.InstagramBusinessAccount.ID, nil
}
