package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

func entriesFixture() *mockEntryService {
	return &mockEntryService{entries: []domain.ChartEntry{
		{ID: 1, Title: "espresso", Artist: "sabrina carpenter"},
		{ID: 2, Title: "lose control", Artist: "teddy swims"},
	}}
}

func TestEntriesCmd_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range entriesCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "delete"}, names)
}

func TestEntriesList_Table(t *testing.T) {
	setupServices(t, Services{Entries: entriesFixture()})

	out, err := execute(t, "entries", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "espresso")
	assert.Contains(t, out, "teddy swims")
	assert.Contains(t, out, "2 entries")
}

func TestEntriesList_JSON(t *testing.T) {
	setupServices(t, Services{Entries: entriesFixture()})

	out, err := execute(t, "entries", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "espresso"`)
	assert.Contains(t, out, `"id": 2`)
}

func TestEntriesList_Empty(t *testing.T) {
	setupServices(t, Services{Entries: &mockEntryService{}})

	out, err := execute(t, "entries", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No chart entries stored.")
}

func TestEntriesDelete(t *testing.T) {
	svc := entriesFixture()
	setupServices(t, Services{Entries: svc})

	out, err := execute(t, "entries", "delete", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted entry 2.")
	assert.Equal(t, []int64{2}, svc.deleted)
}

func TestEntriesDelete_NotFound(t *testing.T) {
	setupServices(t, Services{Entries: entriesFixture()})

	_, err := execute(t, "entries", "delete", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 99 not found")
}

func TestEntriesDelete_NonNumeric(t *testing.T) {
	setupServices(t, Services{Entries: entriesFixture()})

	_, err := execute(t, "entries", "delete", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
