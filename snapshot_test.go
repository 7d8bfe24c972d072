package stockwatch_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/stockwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("drops out of stock sizes", func(t *testing.T) {
		t.Parallel()

		s := stockwatch.Snapshot{
			Name:  "SHIRT",
			State: stockwatch.AvailabilityAvailable,
			Sizes: []stockwatch.Size{
				{Label: "S", Status: stockwatch.SizeAvailable},
				{Label: "M", Status: stockwatch.SizeLowStock},
				{Label: "L", Status: stockwatch.SizeOutOfStock},
			},
		}

		got := s.Normalize()

		assert.Equal(t, []stockwatch.Size{
			{Label: "S", Status: stockwatch.SizeAvailable},
			{Label: "M", Status: stockwatch.SizeLowStock},
		}, got.Sizes)
	})

	t.Run("turns a list with only out of stock sizes into nil", func(t *testing.T) {
		t.Parallel()

		s := stockwatch.Snapshot{
			Name:  "SHIRT",
			State: stockwatch.AvailabilityIndeterminate,
			Sizes: []stockwatch.Size{{Label: "L", Status: stockwatch.SizeOutOfStock}},
		}

		assert.Nil(t, s.Normalize().Sizes)
	})

	t.Run("drops sizes for states without sizes", func(t *testing.T) {
		t.Parallel()

		s := stockwatch.Snapshot{
			Name:  "SHIRT",
			State: stockwatch.AvailabilitySoldOut,
			Sizes: []stockwatch.Size{{Label: "S", Status: stockwatch.SizeAvailable}},
		}

		assert.Nil(t, s.Normalize().Sizes)
	})

	t.Run("fills empty name and state", func(t *testing.T) {
		t.Parallel()

		got := stockwatch.Snapshot{}.Normalize()

		assert.Equal(t, stockwatch.UnknownSnapshot(), got)
	})
}

func TestSnapshot_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts defined state and size statuses", func(t *testing.T) {
		t.Parallel()

		s := stockwatch.Snapshot{
			Name:  "SHIRT",
			State: stockwatch.AvailabilityAvailable,
			Sizes: []stockwatch.Size{{Label: "S", Status: stockwatch.SizeLowStock}},
		}

		assert.NoError(t, s.Validate())
	})

	t.Run("rejects missing state", func(t *testing.T) {
		t.Parallel()

		err := stockwatch.Snapshot{Name: "SHIRT"}.Validate()

		assert.Equal(t, stockwatch.EINVALID, stockwatch.ErrorCode(err))
	})

	t.Run("rejects missing size status", func(t *testing.T) {
		t.Parallel()

		s := stockwatch.Snapshot{
			Name:  "SHIRT",
			State: stockwatch.AvailabilityAvailable,
			Sizes: []stockwatch.Size{{Label: "S"}},
		}

		err := s.Validate()

		assert.Equal(t, stockwatch.EINVALID, stockwatch.ErrorCode(err))
		assert.Contains(t, stockwatch.ErrorMessage(err), `"S"`)
	})
}

func TestErrorSnapshot(t *testing.T) {
	t.Parallel()

	assert.Equal(t, stockwatch.Snapshot{Name: "Unknown", State: stockwatch.AvailabilityError}, stockwatch.ErrorSnapshot(""))
	assert.Equal(t, "SHIRT", stockwatch.ErrorSnapshot("SHIRT").Name)
}

func TestStateMap_WithDefaults(t *testing.T) {
	t.Parallel()

	t.Run("fills missing links and keeps orphans", func(t *testing.T) {
		t.Parallel()

		existing := stockwatch.Snapshot{Name: "A", State: stockwatch.AvailabilitySoldOut}
		orphan := stockwatch.Snapshot{Name: "Z", State: stockwatch.AvailabilityAvailable}
		m := stockwatch.StateMap{"a": existing, "z": orphan}

		got := m.WithDefaults([]string{"a", "b"})

		assert.Equal(t, stockwatch.StateMap{
			"a": existing,
			"b": stockwatch.UnknownSnapshot(),
			"z": orphan,
		}, got)
	})

	t.Run("creates a map when nil", func(t *testing.T) {
		t.Parallel()

		var m stockwatch.StateMap

		got := m.WithDefaults([]string{"a", "b"})

		assert.Equal(t, stockwatch.NewStateMap([]string{"a", "b"}), got)
		assert.Len(t, got, 2)
	})
}

func TestAvailability_JSON(t *testing.T) {
	t.Parallel()

	t.Run("encodes as upper case text", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(stockwatch.Snapshot{Name: "A", State: stockwatch.AvailabilitySoldOut})

		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"A","state":"SOLD_OUT","sizes":null}`, string(data))
	})

	t.Run("rejects unknown state", func(t *testing.T) {
		t.Parallel()

		var s stockwatch.Snapshot
		err := json.Unmarshal([]byte(`{"name":"A","state":"SOLDOUT","sizes":null}`), &s)

		require.Error(t, err)
	})

	t.Run("rejects unknown size status", func(t *testing.T) {
		t.Parallel()

		var s stockwatch.Snapshot
		err := json.Unmarshal([]byte(`{"name":"A","state":"AVAILABLE","sizes":[{"label":"S","status":"PLENTY"}]}`), &s)

		require.Error(t, err)
	})

	t.Run("rejects marshalling an invalid state", func(t *testing.T) {
		t.Parallel()

		_, err := json.Marshal(stockwatch.Snapshot{Name: "A", State: "typo"})

		require.Error(t, err)
	})
}
