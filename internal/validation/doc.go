// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

// Package validation validates API request structs with go-playground/validator.
//
// A single validator instance is shared by all handlers. Field names in
// error messages come from the `query` tag (falling back to `json`), so
// messages refer to the parameter names clients actually send.
//
// Besides the built-in tags, the "strategy" tag accepts the recommendation
// strategy names understood by recommend.ParseStrategy:
//
//	type RecommendRequest struct {
//	    UserID int    `query:"user_id" validate:"min=0"`
//	    Method string `query:"method" validate:"strategy"`
//	    N      int    `query:"n" validate:"min=1,max=10"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	}
package validation
