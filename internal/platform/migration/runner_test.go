// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestConvertToPgx5DSN rewrites libpq URL schemes into the golang-migrate pgx5 scheme.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"postgres_scheme", "postgres://u@h:5432/db?sslmode=disable", "pgx5://u@h:5432/db?sslmode=disable"},
		{"postgresql_scheme", "postgresql://u@h/db", "pgx5://u@h/db"},
		{"already_pgx5", "pgx5://u@h/db", "pgx5://u@h/db"},
		{"keyword_dsn", "host=h dbname=db", "host=h dbname=db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convertToPgx5DSN(tt.in))
		})
	}
}
