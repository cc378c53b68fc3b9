package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/melee/internal/config"
	"github.com/cory-johannsen/melee/internal/storage/postgres"
	"github.com/cory-johannsen/melee/internal/testutil"
)

func TestPool_Health(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	assert.NoError(t, pc.Pool.Health(context.Background(), 5*time.Second))
}

func TestNewPool_BadDSN(t *testing.T) {
	_, err := postgres.NewPool(context.Background(), config.DatabaseConfig{
		Host: "localhost", Port: 1, User: "x", Name: "x", SSLMode: "bogus",
	})
	require.Error(t, err)
}
