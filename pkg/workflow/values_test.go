package workflow_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	valid := []struct {
		in   any
		want float64
	}{
		{float64(1.5), 1.5},
		{float32(2), 2},
		{int(3), 3},
		{int64(4), 4},
		{uint32(5), 5},
		{json.Number("6.25"), 6.25},
	}
	for _, tt := range valid {
		got, err := workflow.ParseNumber("qty", tt.in)
		require.NoError(t, err, "%T", tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, in := range []any{"7", true, nil, json.Number("x"), math.NaN(), math.Inf(1)} {
		_, err := workflow.ParseNumber("qty", in)
		var invalid *workflow.InvalidFieldError
		require.ErrorAs(t, err, &invalid, "%v", in)
		assert.Equal(t, "qty", invalid.Field)
	}
}

func TestRoundMoneyAndPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2.5, workflow.RoundMoney(2.499999))
	assert.Equal(t, 10.13, workflow.RoundMoney(10.125))
	assert.Equal(t, -1.5, workflow.RoundMoney(-1.499999))

	pct, ok := workflow.Percent(1, 3)
	require.True(t, ok)
	assert.Equal(t, 33.33, pct)

	_, ok = workflow.Percent(1, 0)
	assert.False(t, ok)
}

func TestRuleInputLookups(t *testing.T) {
	t.Parallel()

	in := workflow.RuleInput{
		Entity:  workflow.Entity{Fields: map[string]any{"rate": 10, "name": "entity", "gone": nil}},
		Payload: map[string]any{"rate": 20, "blank": nil},
	}

	n, ok, err := in.Number("rate")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 20.0, n, "payload wins over entity")

	s, ok, err := in.String("name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "entity", s)

	_, ok, err = in.Number("gone")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = in.Number("blank")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = in.String("rate")
	assert.True(t, workflow.IsInvalidFieldValue(err))

	rate, err := in.Rate("absent")
	require.NoError(t, err)
	assert.Zero(t, rate)

	_, err = workflow.RuleInput{Payload: map[string]any{"rate": -1}}.Rate("rate")
	assert.True(t, workflow.IsInvalidFieldValue(err))

	_, err = workflow.RuleInput{}.RequirePositive("price")
	assert.True(t, workflow.IsMissingRequiredField(err))
	_, err = workflow.RuleInput{Payload: map[string]any{"price": -5}}.RequirePositive("price")
	assert.True(t, workflow.IsMissingRequiredField(err))
	_, err = workflow.RuleInput{Payload: map[string]any{"price": "5"}}.RequirePositive("price")
	assert.True(t, workflow.IsInvalidFieldValue(err))
}

func TestChainAndHelpers(t *testing.T) {
	t.Parallel()

	in := workflow.RuleInput{Now: now, Payload: map[string]any{"reason": "late", "count": 3}}

	m, err := workflow.Chain(
		workflow.Stamp("at"),
		workflow.CopyOptional("reason", "missing"),
		func(workflow.RuleInput) (workflow.Mutation, error) {
			var m workflow.Mutation
			m.Set("at", "overridden")
			m.Linked = append(m.Linked, workflow.LinkedUpdate{Target: workflow.LinkOrderPaymentStatus, ID: "o-1", Value: "refunded"})
			return m, nil
		},
	)(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"at": "overridden", "reason": "late"}, m.Fields)
	assert.Len(t, m.Linked, 1)

	_, err = workflow.CopyOptional("count")(in)
	assert.True(t, workflow.IsInvalidFieldValue(err))

	_, err = workflow.Chain(workflow.Stamp("at"), workflow.CopyOptional("count"))(in)
	assert.Error(t, err)
}
