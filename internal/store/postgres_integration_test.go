// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fitforge/fitforge/internal/store"
)

// setupPostgresContainer starts a PostgreSQL container and connects a Store to it.
func setupPostgresContainer() (*store.Store, func(), error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("fitforge_test"),
		postgres.WithUsername("fitforge"),
		postgres.WithPassword("fitforge"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Connect(ctx, store.Config{URL: connStr, ConnectTimeout: 30 * time.Second})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		st.Close()
		_ = container.Terminate(ctx)
	}

	return st, cleanup, nil
}

var _ = Describe("Store", func() {
	var st *store.Store
	var cleanup func()

	BeforeEach(func() {
		var err error
		st, cleanup, err = setupPostgresContainer()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		cleanup()
	})

	Describe("Ping", func() {
		It("reports a reachable database", func() {
			Expect(st.Ping(context.Background())).To(Succeed())
		})
	})

	Describe("Migrate", func() {
		It("creates all schema tables", func() {
			ctx := context.Background()
			Expect(st.Migrate()).To(Succeed())

			rows, err := st.Pool().Query(ctx,
				`SELECT table_name FROM information_schema.tables
				 WHERE table_schema = 'public' ORDER BY table_name`)
			Expect(err).NotTo(HaveOccurred())
			defer rows.Close()

			var tables []string
			for rows.Next() {
				var name string
				Expect(rows.Scan(&name)).To(Succeed())
				tables = append(tables, name)
			}
			Expect(rows.Err()).NotTo(HaveOccurred())

			Expect(tables).To(ContainElements(
				"users", "profiles", "verifications", "coaches", "workout_plans", "workouts"))
		})

		It("is idempotent", func() {
			Expect(st.Migrate()).To(Succeed())
			Expect(st.Migrate()).To(Succeed(), "second run should be a no-op")
		})
	})
})
