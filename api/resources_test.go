package api

import (
	"errors"
	"testing"

	"github.com/carlmjohnson/be"
)

func TestParseAssets(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantIDs []string
	}{
		{
			name:    "bare array",
			payload: `[{"id": 1, "name": "House", "balance": "5000.00"}]`,
			wantIDs: []string{"1"},
		},
		{
			name:    "wrapped array",
			payload: `{"assets": [{"id": "a-1", "name": "House"}, {"id": 22, "name": "Car"}]}`,
			wantIDs: []string{"a-1", "22"},
		},
		{
			name:    "empty wrapped array",
			payload: `{"assets": []}`,
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assets, err := ParseAssets([]byte(tt.payload))
			be.NilErr(t, err)

			ids := make([]string, 0, len(assets))
			for _, a := range assets {
				ids = append(ids, a.ID)
			}
			be.AllEqual(t, tt.wantIDs, ids)
		})
	}
}

func TestParseAssetsFields(t *testing.T) {
	payload := `{"assets": [{
		"id": 7,
		"name": "Brokerage",
		"display_name": "My Brokerage",
		"type_name": "investment",
		"balance": "34267.64",
		"to_base": 47772.69,
		"currency": " usd ",
		"closed_on": null,
		"is_liability": false,
		"custom_field": {"nested": true}
	}]}`

	assets, err := ParseAssets([]byte(payload))
	be.NilErr(t, err)
	be.Equal(t, 1, len(assets))

	a := assets[0]
	be.Equal(t, "7", a.ID)
	be.Equal(t, "My Brokerage", *a.DisplayName)
	be.Equal(t, "investment", *a.TypeName)
	be.Equal(t, 34267.64, a.Balance.Value)
	be.True(t, a.Balance.Valid)
	be.Equal(t, 47772.69, a.ToBase.Value)
	be.Equal(t, "USD", *a.Currency)
	be.True(t, a.ClosedOn == nil)
	be.False(t, *a.IsLiability)
	be.Equal(t, `{"nested": true}`, string(a.Extra["custom_field"]))
}

func TestParseAssetsRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantPath string
	}{
		{
			name:     "unparseable balance",
			payload:  `[{"id": 1, "name": "ok"}, {"id": 2, "name": "bad", "balance": "twelve"}]`,
			wantPath: "[1].balance",
		},
		{
			name:     "missing name",
			payload:  `{"assets": [{"id": 1}]}`,
			wantPath: "assets[0].name",
		},
		{
			name:     "blank currency",
			payload:  `[{"id": 1, "name": "ok", "currency": "   "}]`,
			wantPath: "[0].currency",
		},
		{
			name:     "unknown wrapper",
			payload:  `{"items": []}`,
			wantPath: "assets",
		},
		{
			name:     "record is not an object",
			payload:  `[42]`,
			wantPath: "[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assets, err := ParseAssets([]byte(tt.payload))
			be.True(t, assets == nil)
			be.True(t, IsKind(err, KindParse))

			var apiErr *Error
			be.True(t, errors.As(err, &apiErr))
			be.Equal(t, "Invalid /v1/assets response", apiErr.Message)
			be.Nonzero(t, len(apiErr.Issues()))
			be.Equal(t, tt.wantPath, apiErr.Issues()[0].Path)
		})
	}
}

func TestNumericField(t *testing.T) {
	tests := []struct {
		name      string
		toBase    string
		wantErr   bool
		wantValid bool
		wantValue float64
	}{
		{name: "number", toBase: `12.5`, wantValid: true, wantValue: 12.5},
		{name: "string", toBase: `"5000.00"`, wantValid: true, wantValue: 5000},
		{name: "padded string", toBase: `" -3.25 "`, wantValid: true, wantValue: -3.25},
		{name: "exponent", toBase: `"1.5e3"`, wantValid: true, wantValue: 1500},
		{name: "bare fraction", toBase: `".5"`, wantValid: true, wantValue: 0.5},
		{name: "trailing text", toBase: `"12abc"`, wantValid: true, wantValue: 12},
		{name: "dangling exponent", toBase: `"7e"`, wantValid: true, wantValue: 7},
		{name: "underscore stops the number", toBase: `"1_000"`, wantValid: true, wantValue: 1},
		{name: "hex prefix reads as zero", toBase: `"0x10"`, wantValid: true, wantValue: 0},
		{name: "null", toBase: `null`, wantValid: false},
		{name: "NaN", toBase: `"NaN"`, wantErr: true},
		{name: "Inf", toBase: `"Inf"`, wantErr: true},
		{name: "Infinity", toBase: `"-Infinity"`, wantErr: true},
		{name: "out of range", toBase: `"1e400"`, wantErr: true},
		{name: "no digits", toBase: `"abc"`, wantErr: true},
		{name: "empty", toBase: `""`, wantErr: true},
		{name: "sign only", toBase: `"-"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `[{"id": 1, "name": "x", "to_base": ` + tt.toBase + `}]`
			assets, err := ParseAssets([]byte(payload))
			if tt.wantErr {
				be.True(t, IsKind(err, KindParse))
				be.Equal(t, 0, len(assets))
				return
			}

			be.NilErr(t, err)
			be.Equal(t, tt.wantValid, assets[0].ToBase.Valid)
			be.Equal(t, tt.wantValue, assets[0].ToBase.Value)
		})
	}
}

func TestOptionalCurrencyTreatsEmptyAsAbsent(t *testing.T) {
	payload := `{"plaid_accounts": [
		{"id": 1, "name": "a", "currency": ""},
		{"id": 2, "name": "b", "currency": null},
		{"id": 3, "name": "c"},
		{"id": 4, "name": "d", "currency": "cad"}
	]}`

	accounts, err := ParsePlaidAccounts([]byte(payload))
	be.NilErr(t, err)
	be.Equal(t, 4, len(accounts))
	be.True(t, accounts[0].Currency == nil)
	be.True(t, accounts[1].Currency == nil)
	be.True(t, accounts[2].Currency == nil)
	be.Equal(t, "CAD", *accounts[3].Currency)
}

func TestParsePlaidAccounts(t *testing.T) {
	payload := `[{
		"id": 99,
		"name": "Everyday Chequing",
		"type": "depository",
		"subtype": "checking",
		"mask": "1234",
		"balance": 1500.5,
		"limit": 2000,
		"balance_last_update": "2025-09-30T10:00:00Z",
		"status": "active"
	}]`

	accounts, err := ParsePlaidAccounts([]byte(payload))
	be.NilErr(t, err)
	be.Equal(t, 1, len(accounts))

	p := accounts[0]
	be.Equal(t, "99", p.ID)
	be.Equal(t, "depository", *p.Type)
	be.Equal(t, "checking", *p.Subtype)
	be.Equal(t, 1500.5, p.Balance.Value)
	be.Equal(t, 2000.0, *p.Limit)
	be.False(t, p.ToBase.Valid)
	be.Equal(t, "2025-09-30T10:00:00Z", *p.BalanceLastUpdate)
}

func TestParsePlaidAccountsRejectsWrongShape(t *testing.T) {
	_, err := ParsePlaidAccounts([]byte(`{"assets": []}`))
	be.True(t, IsKind(err, KindParse))

	_, err = ParsePlaidAccounts([]byte(`not json`))
	be.True(t, IsKind(err, KindParse))
}

func TestParseProfile(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{
			name:    "raw object",
			payload: `{"user_name": "Sam", "primary_currency": "cad", "user_email": "sam@example.com", "user_id": 12}`,
		},
		{
			name:    "data wrapper",
			payload: `{"data": {"user_name": "Sam", "primary_currency": "CAD", "user_email": "sam@example.com", "user_id": 12}}`,
		},
		{
			name:    "me wrapper",
			payload: `{"me": {"user_name": "Sam", "primary_currency": " cad", "user_email": "sam@example.com", "user_id": 12}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := ParseProfile([]byte(tt.payload))
			be.NilErr(t, err)
			be.Equal(t, "Sam", profile.Name)
			be.Equal(t, "CAD", profile.PrimaryCurrency)
			be.Equal(t, "sam@example.com", profile.Email)
			be.Equal(t, int64(12), *profile.UserID)
		})
	}
}

func TestParseProfileRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "missing name", payload: `{"primary_currency": "USD"}`},
		{name: "missing currency", payload: `{"user_name": "Sam"}`},
		{name: "bad email", payload: `{"user_name": "Sam", "primary_currency": "USD", "user_email": "nope"}`},
		{name: "wrapped but invalid", payload: `{"data": {"user_name": "Sam"}}`},
		{name: "array", payload: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.payload))
			be.True(t, IsKind(err, KindParse))
		})
	}
}
