package mongo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/mongo"
)

func TestNew_EmptyURL(t *testing.T) {
	t.Parallel()

	_, err := mongo.New(context.Background(), mongo.Config{})
	require.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)

	_, err = mongo.NewWithDatabase(context.Background(), mongo.Config{Database: "workflow"}, "")
	require.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)
}

func TestNew_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := mongo.New(context.Background(), mongo.Config{ConnectionURL: "not-a-mongo-url"})
	require.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
}
