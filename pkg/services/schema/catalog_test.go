package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogFor(t *testing.T) {
	t.Run("KnownRollup", func(t *testing.T) {
		catalog := CatalogFor("sales_by_location")
		assert.Equal(t, "sales_by_location", catalog.Collection)
		assert.True(t, catalog.HasField("total_sales"))
	})

	t.Run("UnknownFallsBackToRaw", func(t *testing.T) {
		catalog := CatalogFor("no_such_collection")
		assert.Equal(t, RawCollection, catalog.Collection)
	})
}

func TestCatalog_HasField(t *testing.T) {
	catalog := CatalogFor(RawCollection)

	assert.True(t, catalog.HasField("Location Name"))
	assert.True(t, catalog.HasField(FieldMonth))
	assert.False(t, catalog.HasField("no_such_field"))

	// Dotted paths validate on their first segment.
	nested := CatalogFor("sales_summary_nested")
	assert.True(t, nested.HasField("monthly_breakdown.month"))
	assert.False(t, nested.HasField("bogus.month"))
}

func TestIsRollup(t *testing.T) {
	assert.True(t, IsRollup("sales_by_month"))
	assert.False(t, IsRollup(RawCollection))
	assert.False(t, IsRollup(""))
}
