package models

import (
	"net/url"
	"strings"

	"github.com/rpupo63/consultancy-site-backend/errs"
	"gorm.io/datatypes"
)

// requireText checks a text field: on create it must be present and non-blank,
// on update it may be absent but not blanked out.
func requireText(field string, v *string, create bool) error {
	if v == nil {
		if create {
			return errs.NewMissingRequiredFieldError(field)
		}
		return nil
	}
	if strings.TrimSpace(*v) == "" {
		return errs.NewMissingRequiredFieldError(field)
	}
	return nil
}

func maxLength(field string, v *string, n int) error {
	if v != nil && len([]rune(*v)) > n {
		return errs.NewInvalidFieldError(field, "too long")
	}
	return nil
}

// optionalURL accepts nil, the empty string (which clears the field) or an absolute http(s) URL.
func optionalURL(field string, v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	u, err := url.Parse(*v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errs.NewInvalidFieldError(field, "must be an absolute http(s) URL")
	}
	return nil
}

func positiveIDs(field string, ids []int64) error {
	for _, id := range ids {
		if id <= 0 {
			return errs.NewInvalidFieldError(field, "ids must be positive integers")
		}
	}
	return nil
}

// firstErr returns the first non-nil error.
func firstErr(checks ...error) error {
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

func setText(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// setNullable maps "" to NULL so clients can clear image fields.
func setNullable(dst **string, v *string) {
	if v == nil {
		return
	}
	if *v == "" {
		*dst = nil
		return
	}
	s := *v
	*dst = &s
}

// StringList trims entries and drops blanks, always returning a non-nil list
// so JSON renders [] rather than null.
func StringList(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// UniqueIDs drops duplicates while keeping first-seen order.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
