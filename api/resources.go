package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

const (
	meLabel            = "/v1/me"
	assetsLabel        = "/v1/assets"
	plaidAccountsLabel = "/v1/plaid_accounts"
)

// Asset is a manually managed balance from the /assets endpoint.
type Asset struct {
	ID                  string                     `json:"id"`
	Name                string                     `json:"name"`
	DisplayName         *string                    `json:"display_name,omitempty"`
	TypeName            *string                    `json:"type_name,omitempty"`
	SubtypeName         *string                    `json:"subtype_name,omitempty"`
	InstitutionName     *string                    `json:"institution_name,omitempty"`
	Balance             Numeric                    `json:"balance"`
	ToBase              Numeric                    `json:"to_base"`
	Currency            *string                    `json:"currency,omitempty"`
	BalanceAsOf         *string                    `json:"balance_as_of,omitempty"`
	ClosedOn            *string                    `json:"closed_on,omitempty"`
	ExcludeTransactions *bool                      `json:"exclude_transactions,omitempty"`
	CreatedAt           *string                    `json:"created_at,omitempty"`
	Status              *string                    `json:"status,omitempty"`
	IsManual            *bool                      `json:"is_manual,omitempty"`
	IsLiability         *bool                      `json:"is_liability,omitempty"`
	LastAutosync        *string                    `json:"last_autosync,omitempty"`
	UpdatedAt           *string                    `json:"updated_at,omitempty"`
	Extra               map[string]json.RawMessage `json:"extra,omitempty"`
}

// PlaidAccount is a bank linked account from the /plaid_accounts endpoint.
type PlaidAccount struct {
	ID                        string                     `json:"id"`
	Name                      string                     `json:"name"`
	DisplayName               *string                    `json:"display_name,omitempty"`
	Type                      *string                    `json:"type,omitempty"`
	Subtype                   *string                    `json:"subtype,omitempty"`
	Mask                      *string                    `json:"mask,omitempty"`
	InstitutionName           *string                    `json:"institution_name,omitempty"`
	Status                    *string                    `json:"status,omitempty"`
	Balance                   Numeric                    `json:"balance"`
	ToBase                    Numeric                    `json:"to_base"`
	Currency                  *string                    `json:"currency,omitempty"`
	DateLinked                *string                    `json:"date_linked,omitempty"`
	Limit                     *float64                   `json:"limit,omitempty"`
	ImportStartDate           *string                    `json:"import_start_date,omitempty"`
	LastImport                *string                    `json:"last_import,omitempty"`
	LastFetch                 *string                    `json:"last_fetch,omitempty"`
	PlaidLastSuccessfulUpdate *string                    `json:"plaid_last_successful_update,omitempty"`
	BalanceLastUpdate         *string                    `json:"balance_last_update,omitempty"`
	AccountCurrency           *string                    `json:"account_currency,omitempty"`
	PrimaryCurrency           *string                    `json:"primary_currency,omitempty"`
	LastAutosync              *string                    `json:"last_autosync,omitempty"`
	Extra                     map[string]json.RawMessage `json:"extra,omitempty"`
}

// Profile is the user the API token belongs to.
type Profile struct {
	Name            string `json:"name" toml:"name"`
	PrimaryCurrency string `json:"primary_currency" toml:"primary_currency"`
	Email           string `json:"email,omitempty" toml:"email,omitempty"`
	UserID          *int64 `json:"user_id,omitempty" toml:"user_id,omitempty"`
	AccountID       *int64 `json:"account_id,omitempty" toml:"account_id,omitempty"`
	BudgetName      string `json:"budget_name,omitempty" toml:"budget_name,omitempty"`
	APIKeyLabel     string `json:"api_key_label,omitempty" toml:"api_key_label,omitempty"`
}

// rawProfile mirrors the upstream field names so validation issues point at them.
type rawProfile struct {
	UserName        string `json:"user_name"`
	UserEmail       string `json:"user_email" validate:"omitempty,email"`
	PrimaryCurrency string `json:"primary_currency" validate:"required"`
	UserID          *int64
	AccountID       *int64
	BudgetName      string
	APIKeyLabel     string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

func validationIssues(prefix string, err error) []Issue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Path: prefix, Message: err.Error()}}
	}

	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Field()
		if prefix != "" {
			path = prefix + "." + path
		}

		msg := fmt.Sprintf("Failed %q validation", fe.Tag())
		switch fe.Tag() {
		case "email":
			msg = "Invalid email"
		case "required":
			msg = "Required"
		}
		issues = append(issues, Issue{Path: path, Message: msg})
	}

	return issues
}

func decodeAsset(item gjson.Result, path string) (Asset, []Issue) {
	f := newFields(item, path)
	a := Asset{
		ID:                  f.id("id"),
		Name:                f.str("name"),
		DisplayName:         f.optStr("display_name"),
		TypeName:            f.optStr("type_name"),
		SubtypeName:         f.optStr("subtype_name"),
		InstitutionName:     f.optStr("institution_name"),
		Balance:             f.numeric("balance"),
		ToBase:              f.numeric("to_base"),
		Currency:            f.optCurrency("currency"),
		BalanceAsOf:         f.optStr("balance_as_of"),
		ClosedOn:            f.optStr("closed_on"),
		ExcludeTransactions: f.optBool("exclude_transactions"),
		CreatedAt:           f.optStr("created_at"),
		Status:              f.optStr("status"),
		IsManual:            f.optBool("is_manual"),
		IsLiability:         f.optBool("is_liability"),
		LastAutosync:        f.optStr("last_autosync"),
		UpdatedAt:           f.optStr("updated_at"),
	}
	a.Extra = f.extra()

	return a, f.issues
}

func decodePlaidAccount(item gjson.Result, path string) (PlaidAccount, []Issue) {
	f := newFields(item, path)
	p := PlaidAccount{
		ID:                        f.id("id"),
		Name:                      f.str("name"),
		DisplayName:               f.optStr("display_name"),
		Type:                      f.optStr("type"),
		Subtype:                   f.optStr("subtype"),
		Mask:                      f.optStr("mask"),
		InstitutionName:           f.optStr("institution_name"),
		Status:                    f.optStr("status"),
		Balance:                   f.numeric("balance"),
		ToBase:                    f.numeric("to_base"),
		Currency:                  f.optCurrency("currency"),
		DateLinked:                f.optStr("date_linked"),
		Limit:                     f.optNumber("limit"),
		ImportStartDate:           f.optStr("import_start_date"),
		LastImport:                f.optStr("last_import"),
		LastFetch:                 f.optStr("last_fetch"),
		PlaidLastSuccessfulUpdate: f.optStr("plaid_last_successful_update"),
		BalanceLastUpdate:         f.optStr("balance_last_update"),
		AccountCurrency:           f.optCurrency("account_currency"),
		PrimaryCurrency:           f.optCurrency("primary_currency"),
		LastAutosync:              f.optStr("last_autosync"),
	}
	p.Extra = f.extra()

	return p, f.issues
}

func decodeProfile(obj gjson.Result, path string) (Profile, []Issue) {
	f := newFields(obj, path)
	raw := rawProfile{
		UserName:        f.str("user_name"),
		PrimaryCurrency: f.currency("primary_currency"),
		UserID:          f.optInt("user_id"),
		AccountID:       f.optInt("account_id"),
	}
	if email := f.optStr("user_email"); email != nil {
		raw.UserEmail = *email
	}
	if budget := f.optStr("budget_name"); budget != nil {
		raw.BudgetName = *budget
	}
	if label := f.optStr("api_key_label"); label != nil {
		raw.APIKeyLabel = *label
	}

	issues := f.issues
	if len(issues) == 0 {
		if err := validate.Struct(raw); err != nil {
			issues = append(issues, validationIssues(path, err)...)
		}
	}
	if len(issues) > 0 {
		return Profile{}, issues
	}

	return Profile{
		Name:            raw.UserName,
		PrimaryCurrency: raw.PrimaryCurrency,
		Email:           raw.UserEmail,
		UserID:          raw.UserID,
		AccountID:       raw.AccountID,
		BudgetName:      raw.BudgetName,
		APIKeyLabel:     raw.APIKeyLabel,
	}, nil
}

// ParseAssets validates an /assets payload. A single bad record fails the whole batch.
func ParseAssets(raw []byte) ([]Asset, error) {
	items, prefix, issues := listItems(raw, "assets")
	if issues != nil {
		return nil, NewParseError("Invalid "+assetsLabel+" response", issues)
	}

	assets := make([]Asset, 0, len(items))
	for i, item := range items {
		asset, itemIssues := decodeAsset(item, itemPath(prefix, i))
		issues = append(issues, itemIssues...)
		assets = append(assets, asset)
	}

	if len(issues) > 0 {
		return nil, NewParseError("Invalid "+assetsLabel+" response", issues)
	}

	return assets, nil
}

// ParsePlaidAccounts validates a /plaid_accounts payload. A single bad record fails the whole batch.
func ParsePlaidAccounts(raw []byte) ([]PlaidAccount, error) {
	items, prefix, issues := listItems(raw, "plaid_accounts")
	if issues != nil {
		return nil, NewParseError("Invalid "+plaidAccountsLabel+" response", issues)
	}

	accounts := make([]PlaidAccount, 0, len(items))
	for i, item := range items {
		account, itemIssues := decodePlaidAccount(item, itemPath(prefix, i))
		issues = append(issues, itemIssues...)
		accounts = append(accounts, account)
	}

	if len(issues) > 0 {
		return nil, NewParseError("Invalid "+plaidAccountsLabel+" response", issues)
	}

	return accounts, nil
}

// ParseProfile validates a /me payload. The profile may be the root object or
// wrapped under "data" or "me"; the shapes are tried in that order.
func ParseProfile(raw []byte) (Profile, error) {
	if !gjson.ValidBytes(raw) {
		return Profile{}, NewParseError("Invalid "+meLabel+" response", []Issue{{Message: "Malformed JSON"}})
	}

	root := gjson.ParseBytes(raw)

	var issues []Issue
	for _, wrapper := range []string{"", "data", "me"} {
		candidate := root
		if wrapper != "" {
			candidate = root.Get(wrapper)
			if !candidate.IsObject() {
				continue
			}
		}

		profile, candidateIssues := decodeProfile(candidate, wrapper)
		if len(candidateIssues) == 0 {
			return profile, nil
		}
		issues = append(issues, candidateIssues...)
	}

	return Profile{}, NewParseError("Invalid "+meLabel+" response", issues)
}
