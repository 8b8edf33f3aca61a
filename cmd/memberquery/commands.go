package main

import (
	"encoding/json"
	"fmt"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	member "github.com/tx7do/go-crud-member"
	"github.com/tx7do/go-crud-member/entity"
	"github.com/tx7do/go-crud-member/server"
	"github.com/tx7do/go-crud-member/sorting"
)

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*configFile, false)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := server.NewMemberService(a.repo, a.logger)
			srv := server.NewHTTPServer(a.cfg.ServerAddr(), a.cfg.Server.Timeout, svc, a.logger)

			app := kratos.New(
				kratos.Name("memberquery"),
				kratos.Context(cmd.Context()),
				kratos.Logger(a.logger),
				kratos.StopTimeout(a.cfg.Server.ShutdownTimeout),
				kratos.Server(srv),
			)
			return app.Run()
		},
	}
}

func newSearchCmd(configFile *string) *cobra.Command {
	var (
		cond          entity.SearchCondition
		ageGoe        int
		ageLoe        int
		offset, limit int
		orderBy       string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search members and print JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("age-goe") {
				cond.AgeGoe = &ageGoe
			}
			if cmd.Flags().Changed("age-loe") {
				cond.AgeLoe = &ageLoe
			}

			a, err := bootstrap(*configFile, false)
			if err != nil {
				return err
			}
			defer a.Close()

			orders, err := sorting.NewOrderByStringConverter(member.SortableFields).Convert(orderBy)
			if err != nil {
				return fmt.Errorf("invalid --order-by: %w", err)
			}

			var out any
			if cmd.Flags().Changed("offset") || cmd.Flags().Changed("limit") {
				out, err = a.repo.SearchPage(cmd.Context(), cond, offset, limit, orders...)
			} else {
				out, err = a.repo.Search(cmd.Context(), cond, orders...)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cond.Username, "username", "", "exact username")
	f.StringVar(&cond.TeamName, "team", "", "exact team name")
	f.IntVar(&ageGoe, "age-goe", 0, "minimum age (inclusive)")
	f.IntVar(&ageLoe, "age-loe", 0, "maximum age (inclusive)")
	f.IntVar(&offset, "offset", 0, "rows to skip")
	f.IntVar(&limit, "limit", 0, "page size")
	f.StringVar(&orderBy, "order-by", "", `order, e.g. "age desc, username" or '["-age","username"]'`)
	return cmd
}

func newMigrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the members and teams tables",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := bootstrap(*configFile, true)
			if err != nil {
				return err
			}
			defer a.Close()

			log.NewHelper(a.logger).Info("migration finished")
			return nil
		},
	}
}

func newSeedCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample teams and members",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*configFile, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if err = member.SeedSample(cmd.Context(), a.repo); err != nil {
				return err
			}
			log.NewHelper(a.logger).Info("sample data inserted")
			return nil
		},
	}
}
