package catalog_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/driftcheck/driftcheck/internal/adapters/outbound/catalog"
	"github.com/driftcheck/driftcheck/internal/domain"
)

func workbookBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestLoader_SingleYAMLFile(t *testing.T) {
	tree, err := catalog.New().Load("../../../../testdata/catalog.yaml")
	require.NoError(t, err)

	require.Equal(t, 5, tree.Len())

	v, ok := tree.Get("device_and_model")
	require.True(t, ok)
	assert.Equal(t, []any{"ASR-9901", "ASR-9904"}, v)

	// Declaration order survives parsing.
	pairs := tree.Pairs()
	assert.Equal(t, "device_and_model", pairs[0].Key)
	assert.Equal(t, "console_logging", pairs[4].Key)
}

func TestLoader_NestedSection(t *testing.T) {
	tree, err := catalog.New().Load("../../../../testdata/catalog.yaml")
	require.NoError(t, err)

	v, ok := tree.Get("management")
	require.True(t, ok)
	sub, isTree := v.(*domain.Tree)
	require.True(t, isTree)

	tz, ok := sub.Get("timezone")
	require.True(t, ok)
	assert.Equal(t, "UTC", tz)
}

func TestLoader_ChoicesWithTolerance(t *testing.T) {
	tree, err := catalog.New().Load("../../../../testdata/catalog.yaml")
	require.NoError(t, err)

	v, ok := tree.Get("interface_mtu")
	require.True(t, ok)
	sub, isTree := v.(*domain.Tree)
	require.True(t, isTree)

	choices, ok := sub.Get("choices")
	require.True(t, ok)
	assert.Len(t, choices, 2)
	tol, ok := sub.Get("tolerance")
	require.True(t, ok)
	assert.EqualValues(t, 8, tol)
}

func TestLoader_LegacyCategoriesShape(t *testing.T) {
	tree, err := catalog.New().Load("../../../../testdata/catalog-categories.yaml")
	require.NoError(t, err)

	require.Equal(t, 2, tree.Len())

	v, ok := tree.Get("chassis_type")
	require.True(t, ok)
	assert.Equal(t, []any{"fixed", "modular"}, v)

	// [value, note] pairs keep only the value.
	v, ok = tree.Get("power_supply")
	require.True(t, ok)
	assert.Equal(t, []any{"AC-750W", "DC-950W"}, v)
}

func TestLoader_LegacyNamesShape(t *testing.T) {
	tree, err := catalog.New().Parse("catalog.yaml", []byte("names:\n  - ThinkPad X1\n  - Latitude 7440\n"))
	require.NoError(t, err)

	v, ok := tree.Get("device_and_model")
	require.True(t, ok)
	assert.Equal(t, []any{"ThinkPad X1", "Latitude 7440"}, v)
}

func TestLoader_Directory_MergesSortedWithOverride(t *testing.T) {
	tree, err := catalog.New().Load("../../../../testdata/catalogs")
	require.NoError(t, err)

	require.Equal(t, 3, tree.Len())

	// 20-site.yaml overrides 10-base.yaml for shared keys.
	v, ok := tree.Get("software_version")
	require.True(t, ok)
	assert.Equal(t, []any{"7.3.1"}, v)

	_, ok = tree.Get("line_cards")
	assert.True(t, ok)
}

func TestLoader_NonMappingRootIsShapeError(t *testing.T) {
	_, err := catalog.New().Parse("catalog.yaml", []byte("- just\n- a\n- list\n"))
	var shapeErr *domain.InputShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "catalog", shapeErr.Input)
}

func TestLoader_EmptyFile(t *testing.T) {
	tree, err := catalog.New().Parse("catalog.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Len())
}

func TestLoader_MissingPath(t *testing.T) {
	_, err := catalog.New().Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestLoader_WorkbookRowLayout(t *testing.T) {
	data := workbookBytes(t, [][]any{
		{"category", "choices"},
		{"chassis_type", "fixed, modular"},
		{"power_supply", "AC-750W"},
		{"", "ignored"},
	})

	tree, err := catalog.New().Parse("catalog.xlsx", data)
	require.NoError(t, err)

	require.Equal(t, 2, tree.Len())
	v, ok := tree.Get("chassis_type")
	require.True(t, ok)
	assert.Equal(t, []any{"fixed", "modular"}, v)
}

func TestLoader_WorkbookColumnLayout(t *testing.T) {
	data := workbookBytes(t, [][]any{
		{"chassis_type", "power_supply"},
		{"fixed", "AC-750W"},
		{"modular", "AC-750W"},
		{"fixed", "DC-950W"},
	})

	tree, err := catalog.New().Parse("catalog.xlsx", data)
	require.NoError(t, err)

	// Values dedupe in first-seen order.
	v, ok := tree.Get("chassis_type")
	require.True(t, ok)
	assert.Equal(t, []any{"fixed", "modular"}, v)

	v, ok = tree.Get("power_supply")
	require.True(t, ok)
	assert.Equal(t, []any{"AC-750W", "DC-950W"}, v)
}
