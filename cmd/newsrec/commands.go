// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/newsrec/internal/api"
	"github.com/tomtom215/newsrec/internal/models"
	"github.com/tomtom215/newsrec/internal/recommend"
	"github.com/tomtom215/newsrec/internal/validation"
)

// validate checks a request and reports each rejected field by its flag.
// The user flag is checked by the caller.
func validate(v interface{}) error {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	fieldErrs := verr.Errors()
	if len(fieldErrs) == 0 {
		return verr
	}
	errs := make([]error, len(fieldErrs))
	for i := range fieldErrs {
		errs[i] = fmt.Errorf("invalid --%s: %s", fieldErrs[i].Field(), fieldErrs[i].Error())
	}
	return errors.Join(errs...)
}

func newRecommendCmd(c *cli) *cobra.Command {
	req := api.RecommendRequest{UserID: -1}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend articles for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.UserID < 0 {
				return errors.New("--user is required and must be non-negative")
			}
			if err := validate(&req); err != nil {
				return err
			}
			strategy, err := recommend.ParseStrategy(req.Method)
			if err != nil {
				return err
			}

			engine, err := c.engine(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := engine.Recommend(cmd.Context(), strategy, req.UserID, req.N)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), models.NewRecommendResponse(rec))
		},
	}

	cmd.Flags().IntVarP(&req.UserID, "user", "u", -1, "user id")
	cmd.Flags().StringVarP(&req.Method, "method", "m", "content", "strategy: content, collaborative or popularity")
	cmd.Flags().IntVarP(&req.N, "n", "n", 5, "number of recommendations (1-10)")
	return cmd
}

func newPopularCmd(c *cli) *cobra.Command {
	var req api.PopularRequest

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the most popular articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validate(&req); err != nil {
				return err
			}
			engine, err := c.engine(cmd.Context())
			if err != nil {
				return err
			}
			results, err := engine.Popular(cmd.Context(), req.N)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), models.NewPopularResponse(results))
		},
	}

	cmd.Flags().IntVarP(&req.N, "n", "n", 10, "number of articles (1-20)")
	return cmd
}

func newUsersCmd(c *cli) *cobra.Command {
	var req api.UsersRequest

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List the most active users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validate(&req); err != nil {
				return err
			}
			engine, err := c.engine(cmd.Context())
			if err != nil {
				return err
			}
			users, err := engine.ActiveUsers(req.Limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), models.NewUsersResponse(users))
		},
	}

	cmd.Flags().IntVarP(&req.Limit, "limit", "l", 20, "number of users (1-50)")
	return cmd
}

// datasetInfo is printed by the info command.
type datasetInfo struct {
	Users         int                     `json:"users_count"`
	Articles      int                     `json:"articles_count"`
	Interactions  int                     `json:"interactions_count"`
	Strategies    []string                `json:"methods"`
	EmbeddingInfo recommend.EmbeddingInfo `json:"embedding_info"`
}

func newInfoCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the loaded dataset and models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := c.engine(cmd.Context())
			if err != nil {
				return err
			}
			emb, err := engine.EmbeddingInfo()
			if err != nil {
				return err
			}
			stats := engine.Stats()
			info := datasetInfo{
				Users:         stats.Users,
				Articles:      stats.Articles,
				Interactions:  stats.Interactions,
				EmbeddingInfo: emb,
			}
			for _, s := range engine.Strategies() {
				info.Strategies = append(info.Strategies, s.String())
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
}
