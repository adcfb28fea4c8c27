// Package storage persists user preferences and the Lunch Money API key.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"github.com/Rshep3087/lunchtogo/accounts"
)

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

type AccentColor string

const (
	AccentBlack  AccentColor = "black"
	AccentBlue   AccentColor = "blue"
	AccentGreen  AccentColor = "green"
	AccentOrange AccentColor = "orange"
	AccentRed    AccentColor = "red"
	AccentRose   AccentColor = "rose"
	AccentViolet AccentColor = "violet"
	AccentYellow AccentColor = "yellow"
)

type VerificationStatus string

const (
	Unverified VerificationStatus = "unverified"
	Verified   VerificationStatus = "verified"
)

// ProfileSnapshot is the part of the Lunch Money profile kept between runs.
type ProfileSnapshot struct {
	Name            string `toml:"name" json:"name"`
	PrimaryCurrency string `toml:"primary_currency" json:"primary_currency" validate:"required"`
}

// Preferences is everything the app remembers apart from the API key.
type Preferences struct {
	Theme              Theme                 `toml:"theme" json:"theme" validate:"oneof=system light dark"`
	AccentColor        AccentColor           `toml:"accent_color" json:"accent_color" validate:"oneof=black blue green orange red rose violet yellow"`
	AccountSort        accounts.SortMode     `toml:"account_sort" json:"account_sort" validate:"oneof=alpha balance"`
	CurrencyMode       accounts.CurrencyMode `toml:"currency_mode" json:"currency_mode" validate:"oneof=primary account"`
	VerificationStatus VerificationStatus    `toml:"verification_status" json:"verification_status" validate:"oneof=unverified verified"`
	DemoMode           bool                  `toml:"demo_mode" json:"demo_mode"`
	Profile            *ProfileSnapshot      `toml:"profile,omitempty" json:"profile,omitempty"`
	LastVerifiedAt     *time.Time            `toml:"last_verified_at,omitempty" json:"last_verified_at,omitempty"`
}

// Defaults returns the preferences of a fresh install.
func Defaults() Preferences {
	return Preferences{
		Theme:              ThemeSystem,
		AccentColor:        AccentBlack,
		AccountSort:        accounts.SortAlpha,
		CurrencyMode:       accounts.CurrencyPrimary,
		VerificationStatus: Unverified,
	}
}

// Validate checks every enumerated field.
func (p Preferences) Validate() error {
	return validationError(validate.Struct(p))
}

// Update is a partial change to Preferences. Nil fields are left alone.
// ClearProfile and ClearLastVerifiedAt remove the stored value and win over a new one.
type Update struct {
	Theme               *Theme                 `json:"theme,omitempty" validate:"omitempty,oneof=system light dark"`
	AccentColor         *AccentColor           `json:"accent_color,omitempty" validate:"omitempty,oneof=black blue green orange red rose violet yellow"`
	AccountSort         *accounts.SortMode     `json:"account_sort,omitempty" validate:"omitempty,oneof=alpha balance"`
	CurrencyMode        *accounts.CurrencyMode `json:"currency_mode,omitempty" validate:"omitempty,oneof=primary account"`
	VerificationStatus  *VerificationStatus    `json:"verification_status,omitempty" validate:"omitempty,oneof=unverified verified"`
	DemoMode            *bool                  `json:"demo_mode,omitempty"`
	Profile             *ProfileSnapshot       `json:"profile,omitempty"`
	ClearProfile        bool                   `json:"-"`
	LastVerifiedAt      *time.Time             `json:"last_verified_at,omitempty"`
	ClearLastVerifiedAt bool                   `json:"-"`
}

// UnmarshalJSON treats an explicit null profile or last_verified_at as a request to clear it.
func (u *Update) UnmarshalJSON(data []byte) error {
	type plain Update
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	body := gjson.ParseBytes(data)
	if v := body.Get("profile"); v.Exists() && v.Type == gjson.Null {
		p.ClearProfile = true
	}
	if v := body.Get("last_verified_at"); v.Exists() && v.Type == gjson.Null {
		p.ClearLastVerifiedAt = true
	}

	*u = Update(p)
	return nil
}

// Validate checks every field that is set.
func (u Update) Validate() error {
	return validationError(validate.Struct(u))
}

// Apply returns base with u laid over it.
func Apply(base Preferences, u Update) Preferences {
	next := base

	if u.Theme != nil {
		next.Theme = *u.Theme
	}
	if u.AccentColor != nil {
		next.AccentColor = *u.AccentColor
	}
	if u.AccountSort != nil {
		next.AccountSort = *u.AccountSort
	}
	if u.CurrencyMode != nil {
		next.CurrencyMode = *u.CurrencyMode
	}
	if u.VerificationStatus != nil {
		next.VerificationStatus = *u.VerificationStatus
	}
	if u.DemoMode != nil {
		next.DemoMode = *u.DemoMode
	}

	switch {
	case u.ClearProfile:
		next.Profile = nil
	case u.Profile != nil:
		profile := *u.Profile
		next.Profile = &profile
	}

	switch {
	case u.ClearLastVerifiedAt:
		next.LastVerifiedAt = nil
	case u.LastVerifiedAt != nil:
		at := u.LastVerifiedAt.UTC()
		next.LastVerifiedAt = &at
	}

	return next
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("toml"), ",")
		if name == "" {
			name, _, _ = strings.Cut(field.Tag.Get("json"), ",")
		}
		return name
	})
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid preferences")

func validationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "oneof" {
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s, got %q", fe.Field(), strings.ReplaceAll(fe.Param(), " ", "|"), fmt.Sprint(fe.Value())))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
	}

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
