package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = "../../data/catalog.json"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", "-f", testCatalog)

	require.NoError(t, err)
	assert.Equal(t, "ok: 12 products\n", out)
}

func TestValidate_DuplicateID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.json")
	doc := `[
	  {"id":"x","title":"One","images":["/a.jpg"],"price":1,"brand":"B","colors":["red"],"sizes":["M"]},
	  {"id":"x","title":"Two","images":["/b.jpg"],"price":2,"brand":"B","colors":["red"],"sizes":["M"]}
	]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, err := run(t, "validate", "-f", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate product id")
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := run(t, "validate", "-f", filepath.Join(t.TempDir(), "nope.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open catalog")
}

func TestList_FiltersAndSorts(t *testing.T) {
	out, err := run(t, "list", "-f", testCatalog, "--brand", "Stride", "--sort", "price-low")
	require.NoError(t, err)

	shorts := strings.Index(out, "p-010")
	sneakers := strings.Index(out, "p-004")
	boots := strings.Index(out, "p-005")
	require.True(t, shorts > 0 && sneakers > 0 && boots > 0, out)
	assert.Less(t, shorts, sneakers)
	assert.Less(t, sneakers, boots)
	assert.Contains(t, out, "149.00 (sale)")
	assert.Contains(t, out, "3 products")
	assert.NotContains(t, out, "p-001")
}

func TestList_Query(t *testing.T) {
	out, err := run(t, "list", "-f", testCatalog, "-q", "JACKET")
	require.NoError(t, err)

	assert.Contains(t, out, "p-007")
	assert.Contains(t, out, "p-008")
	assert.Contains(t, out, "2 products")
}

func TestList_InvalidSort(t *testing.T) {
	_, err := run(t, "list", "-f", testCatalog, "--sort", "newest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort")
}

func TestFacets(t *testing.T) {
	out, err := run(t, "facets", "-f", testCatalog)
	require.NoError(t, err)

	var facets struct {
		Brands   []string `json:"brands"`
		MaxPrice string   `json:"max_price"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &facets))
	assert.Equal(t, []string{"Atelier", "Basics Co", "Fjell", "Northwind", "Stride"}, facets.Brands)
	assert.Equal(t, "199", facets.MaxPrice)
}

func TestGenerate_RoundTripsThroughValidate(t *testing.T) {
	out, err := run(t, "generate", "-n", "25", "--seed", "3")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "generated.json")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))

	out, err = run(t, "validate", "-f", path)
	require.NoError(t, err)
	assert.Equal(t, "ok: 25 products\n", out)
}

func TestGenerate_RejectsZeroCount(t *testing.T) {
	_, err := run(t, "generate", "-n", "0")

	require.Error(t, err)
}
