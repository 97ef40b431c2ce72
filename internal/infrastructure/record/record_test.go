package record_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/record"
)

func TestPrepare_AssignsNewID(t *testing.T) {
	id, raw, err := record.Prepare(map[string]any{"id": "cliente", "name": "Café cru"})
	require.NoError(t, err)
	assert.NotEqual(t, "cliente", id)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, id, got["id"])
	assert.Equal(t, "Café cru", got["name"])
}

func TestPrepare_KeepsNumberPrecision(t *testing.T) {
	_, raw, err := record.Prepare(json.RawMessage(`{"stock":0.1000000000000000055511151231257827}`))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `0.1000000000000000055511151231257827`)
}

func TestPrepare_RejectsNonObject(t *testing.T) {
	_, _, err := record.Prepare([]int{1, 2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrepareReplace_ForcesPathID(t *testing.T) {
	raw, err := record.PrepareReplace("2024-08", map[string]any{"id": "otro", "period": "2024-08"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"2024-08","period":"2024-08"}`, string(raw))

	_, err = record.PrepareReplace("", map[string]any{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrepareCollection(t *testing.T) {
	entries, err := record.PrepareCollection([]map[string]any{{"id": "a"}, {"id": 7}, {"name": "sin id"}})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "7", entries[1].ID)
	assert.NotEmpty(t, entries[2].ID)

	_, err = record.PrepareCollection([]map[string]any{{"id": "a"}, {"id": "a"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
