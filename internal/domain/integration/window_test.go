package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowContains(t *testing.T) {
	now := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	w := NewWindow(now, time.Minute)

	t.Run("record exactly at now minus interval is included", func(t *testing.T) {
		assert.True(t, w.Contains(now.Add(-time.Minute)))
	})

	t.Run("one microsecond earlier is excluded", func(t *testing.T) {
		assert.False(t, w.Contains(now.Add(-time.Minute).Add(-time.Microsecond)))
	})

	t.Run("end boundary is exclusive", func(t *testing.T) {
		assert.True(t, w.Contains(now.Add(-time.Microsecond)))
		assert.False(t, w.Contains(now))
	})
}

func TestSalesOrderHelpers(t *testing.T) {
	order := &SalesOrder{
		CustomFields: map[string]string{ProvenanceField: "801xx0000000001"},
		ShipLines: []ShipLine{
			{TrackingNumber: "1Z999AA10123456784"},
			{TrackingNumber: ""},
			{TrackingNumber: "1Z999AA10123456785"},
		},
	}

	assert.Equal(t, "801xx0000000001", order.CRMOrderID())
	assert.Equal(t, []string{"1Z999AA10123456784", "1Z999AA10123456785"}, order.TrackingNumbers())

	empty := &SalesOrder{}
	assert.Empty(t, empty.CRMOrderID())
	assert.Empty(t, empty.TrackingNumbers())
}
