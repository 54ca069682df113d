package billing_test

import (
	"testing"

	"jastip-express/internal/billing"
	"jastip-express/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(id, customer string, price, fee int64, qty int) models.Order {
	return models.Order{
		ID:              id,
		CustomerName:    customer,
		ItemDescription: "item " + id,
		Quantity:        qty,
		Price:           price,
		JastipFee:       fee,
		Status:          models.StatusNotPaid,
	}
}

func TestGroupByCustomer_PreservesOrderWithinBucket(t *testing.T) {
	orders := []models.Order{
		order("o0", "Alice", 1000, 0, 1),
		order("o1", "Bob", 2000, 0, 1),
		order("o2", "Alice", 3000, 0, 1),
	}

	groups := billing.GroupByCustomer(orders)

	require.Len(t, groups, 2)
	assert.Equal(t, "Alice", groups[0].Name)
	assert.Equal(t, "Bob", groups[1].Name)

	alice := billing.Find(groups, "Alice")
	require.NotNil(t, alice)
	require.Len(t, alice.Orders, 2)
	assert.Equal(t, "o0", alice.Orders[0].ID)
	assert.Equal(t, "o2", alice.Orders[1].ID)

	bob := billing.Find(groups, "Bob")
	require.NotNil(t, bob)
	require.Len(t, bob.Orders, 1)
	assert.Equal(t, "o1", bob.Orders[0].ID)
}

func TestGroupByCustomer_PartitionsExhaustively(t *testing.T) {
	orders := []models.Order{
		order("a", "X", 0, 0, 1),
		order("b", "Y", 0, 0, 1),
		order("c", "X", 0, 0, 1),
		order("d", "", 0, 0, 1),
		order("e", "Z", 0, 0, 1),
	}

	groups := billing.GroupByCustomer(orders)

	seen := map[string]int{}
	total := 0
	for _, g := range groups {
		for _, o := range g.Orders {
			seen[o.ID]++
			total++
		}
	}

	// Every input order appears exactly once across all buckets
	assert.Equal(t, len(orders), total)
	for _, o := range orders {
		assert.Equal(t, 1, seen[o.ID], "order %s should appear exactly once", o.ID)
	}
}

func TestGroupByCustomer_EmptyNameGoesToSentinelBucket(t *testing.T) {
	groups := billing.GroupByCustomer([]models.Order{order("o1", "", 0, 0, 1)})

	require.Len(t, groups, 1)
	assert.Equal(t, models.UnnamedCustomer, groups[0].Name)
	require.Len(t, groups[0].Orders, 1)
	assert.Equal(t, "o1", groups[0].Orders[0].ID)
}

func TestGroupByCustomer_NoNormalization(t *testing.T) {
	// "alice" and "Alice " are distinct customers: exact string match only
	groups := billing.GroupByCustomer([]models.Order{
		order("o1", "Alice", 0, 0, 1),
		order("o2", "alice", 0, 0, 1),
		order("o3", "Alice ", 0, 0, 1),
	})

	assert.Len(t, groups, 3)
}

func TestGroupByCustomer_EmptyInput(t *testing.T) {
	groups := billing.GroupByCustomer(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestComputeTotals_ConcreteScenario(t *testing.T) {
	orders := []models.Order{
		order("o1", "Alice", 150000, 20000, 2),
		order("o2", "Alice", 75000, 10000, 1),
	}

	totals, err := billing.ComputeTotals(orders)
	require.NoError(t, err)

	assert.Equal(t, int64(375000), totals.ItemTotal)
	assert.Equal(t, int64(50000), totals.FeeTotal)
	assert.Equal(t, int64(425000), totals.GrandTotal)
}

func TestComputeTotals_ZeroDefaultForMissingPriceAndFee(t *testing.T) {
	// Absent price/fee decode to zero at the boundary and must sum to zero
	totals, err := billing.ComputeTotals([]models.Order{order("o1", "Alice", 0, 0, 3)})
	require.NoError(t, err)

	assert.Equal(t, billing.Totals{}, totals)
}

func TestComputeTotals_Additivity(t *testing.T) {
	a := []models.Order{
		order("a1", "Alice", 150000, 20000, 2),
		order("a2", "Bob", 9000, 500, 4),
	}
	b := []models.Order{
		order("b1", "Carol", 75000, 10000, 1),
	}

	totalsA, err := billing.ComputeTotals(a)
	require.NoError(t, err)
	totalsB, err := billing.ComputeTotals(b)
	require.NoError(t, err)
	combined, err := billing.ComputeTotals(append(append([]models.Order{}, a...), b...))
	require.NoError(t, err)

	assert.Equal(t, totalsA.ItemTotal+totalsB.ItemTotal, combined.ItemTotal)
	assert.Equal(t, totalsA.FeeTotal+totalsB.FeeTotal, combined.FeeTotal)
	assert.Equal(t, totalsA.GrandTotal+totalsB.GrandTotal, combined.GrandTotal)
}

func TestComputeTotals_InvalidQuantityFailsFast(t *testing.T) {
	_, err := billing.ComputeTotals([]models.Order{order("bad", "Alice", 1000, 0, 0)})
	require.Error(t, err)
	assert.ErrorIs(t, err, billing.ErrInvalidQuantity)

	_, err = billing.ComputeTotals([]models.Order{order("bad", "Alice", 1000, 0, -2)})
	assert.ErrorIs(t, err, billing.ErrInvalidQuantity)
}

func TestIdempotence(t *testing.T) {
	orders := []models.Order{
		order("o1", "Alice", 150000, 20000, 2),
		order("o2", "Bob", 75000, 10000, 1),
		order("o3", "", 5000, 0, 3),
	}

	first := billing.GroupByCustomer(orders)
	second := billing.GroupByCustomer(orders)
	assert.Equal(t, first, second)

	t1, err := billing.ComputeTotals(orders)
	require.NoError(t, err)
	t2, err := billing.ComputeTotals(orders)
	require.NoError(t, err)
	assert.Equal(t, t1, t2)
}

func TestLineTotal(t *testing.T) {
	total, err := billing.LineTotal(order("o1", "Alice", 150000, 20000, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(340000), total)

	_, err = billing.LineTotal(order("o2", "Alice", 150000, 20000, 0))
	assert.ErrorIs(t, err, billing.ErrInvalidQuantity)
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 0", billing.FormatRupiah(0))
	assert.Equal(t, "Rp 375.000", billing.FormatRupiah(375000))
	assert.Equal(t, "Rp 1.250.500", billing.FormatRupiah(1250500))
	assert.Equal(t, "Rp 999", billing.FormatRupiah(999))
	assert.Equal(t, "-Rp 1.000", billing.FormatRupiah(-1000))
}
