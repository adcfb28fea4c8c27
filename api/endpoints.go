package api

import "context"

// FetchMe returns the profile of the user owning the token.
// Errors from the getter are returned unchanged.
func FetchMe(ctx context.Context, g Getter) (Profile, error) {
	raw, err := g.Get(ctx, "/me")
	if err != nil {
		return Profile{}, err
	}

	return ParseProfile(raw)
}

// FetchAssets returns every manually managed asset, closed ones included.
func FetchAssets(ctx context.Context, g Getter) ([]Asset, error) {
	raw, err := g.Get(ctx, "/assets")
	if err != nil {
		return nil, err
	}

	return ParseAssets(raw)
}

// FetchPlaidAccounts returns every linked account, closed ones included.
func FetchPlaidAccounts(ctx context.Context, g Getter) ([]PlaidAccount, error) {
	raw, err := g.Get(ctx, "/plaid_accounts")
	if err != nil {
		return nil, err
	}

	return ParsePlaidAccounts(raw)
}
