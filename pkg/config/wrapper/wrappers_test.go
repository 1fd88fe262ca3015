package wrapper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-actions/pkg/config"
	"github.com/code-payments/code-actions/pkg/config/memory"
)

type conversionTestCase[T any] struct {
	raw      interface{}
	expected T
	invalid  bool
}

func testValueConfig[T any](t *testing.T, ctor func(config.Config, T) config.Value[T], defaultValue, overridenValue T, conversions []conversionTestCase[T]) {
	ctx := context.Background()
	mock := memory.NewConfig(nil)
	wrapper := ctor(mock, defaultValue)

	// Return the default value when no override is set
	val, err := wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)
	assert.Equal(t, defaultValue, wrapper.Get(ctx))

	// The overriden value is returned when set
	mock.SetValue(overridenValue)
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(ctx))

	// The last observed config value is returned on error
	mock.InduceErrors()
	val, err = wrapper.GetSafe(ctx)
	require.Error(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(ctx))

	// The default value is returned when the override no longer has a value
	mock.StopInducingErrors()
	mock.ClearValue()
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	mock.SetValue(overridenValue)
	_, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)

	for _, tc := range conversions {
		mock.SetValue(tc.raw)
		val, err = wrapper.GetSafe(ctx)
		if tc.invalid {
			// The last good value survives a bad conversion
			assert.Error(t, err, "%v", tc.raw)
			assert.Equal(t, overridenValue, val)
			continue
		}

		require.NoError(t, err, "%v", tc.raw)
		assert.Equal(t, tc.expected, val)

		mock.SetValue(overridenValue)
		_, err = wrapper.GetSafe(ctx)
		require.NoError(t, err)
	}

	// Return an unsupported source value type
	mock.SetValue(struct{}{})
	val, err = wrapper.GetSafe(ctx)
	assert.Equal(t, ErrUnsuportedConversion, err)
	assert.Equal(t, overridenValue, val)

	// Shutdown via the wrapper
	wrapper.Shutdown()
	_, err = wrapper.GetSafe(ctx)
	assert.Equal(t, config.ErrShutdown, err)
}

func TestBoolConfig(t *testing.T) {
	testValueConfig(t, NewBoolConfig, true, false, []conversionTestCase[bool]{
		{raw: []byte("true"), expected: true},
		{raw: []byte("0"), expected: false},
		{raw: []byte("maybe"), invalid: true},
	})
}

func TestUint64Config(t *testing.T) {
	testValueConfig(t, NewUint64Config, 50, 64, []conversionTestCase[uint64]{
		{raw: []byte("18446744073709551615"), expected: 18446744073709551615},
		{raw: uint(7), expected: 7},
		{raw: uint8(255), expected: 255},
		{raw: []byte("-1"), invalid: true},
		{raw: []byte("18446744073709551616"), invalid: true},
		{raw: "12", invalid: true},
	})
}

func TestFloat64Config(t *testing.T) {
	testValueConfig(t, NewFloat64Config, 5.0, 0.5, []conversionTestCase[float64]{
		{raw: []byte("2.25"), expected: 2.25},
		{raw: []byte("-1e3"), expected: -1000},
		{raw: []byte("five"), invalid: true},
	})
}

func TestStringConfig(t *testing.T) {
	testValueConfig(t, NewStringConfig, "default", "override", []conversionTestCase[string]{
		{raw: []byte("from bytes"), expected: "from bytes"},
		{raw: []byte{}, expected: ""},
		{raw: 12, invalid: true},
	})
}

func TestDurationConfig(t *testing.T) {
	testValueConfig(t, NewDurationConfig, 30*time.Second, -2*time.Hour, []conversionTestCase[time.Duration]{
		{raw: []byte("15s"), expected: 15 * time.Second},
		{raw: []byte("-1m30s"), expected: -90 * time.Second},
		{raw: []byte("cannot convert"), invalid: true},
	})
}
