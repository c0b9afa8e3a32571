package ranker

import (
	"fmt"
	"testing"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func product(name string, price float64) entity.Product {
	return entity.Product{Name: name, Price: price, URL: "https://example.com/" + name}
}

func prices(products []entity.Product) []float64 {
	out := make([]float64, 0, len(products))
	for _, p := range products {
		out = append(out, p.Price)
	}
	return out
}

func TestRank_ZeroPriceRanksLast(t *testing.T) {
	in := []entity.Product{
		product("a", 50.0),
		product("b", 0.0),
		product("c", 10.0),
		product("d", 30.0),
	}

	got := New(3).Rank(in)

	assert.Equal(t, []float64{10.0, 30.0, 50.0}, prices(got))
}

func TestRank_ZeroPriceIncludedWhenFewPricedProducts(t *testing.T) {
	in := []entity.Product{
		product("unpriced", 0.0),
		product("priced", 99.0),
	}

	got := New(3).Rank(in)

	require.Len(t, got, 2)
	assert.Equal(t, "priced", got[0].Name)
	assert.Equal(t, "unpriced", got[1].Name)
	assert.Equal(t, 0.0, got[1].Price, "stored price stays zero")
}

func TestRank_StableForEqualPrices(t *testing.T) {
	in := []entity.Product{
		product("first", 20.0),
		product("cheap", 5.0),
		product("second", 20.0),
		product("third", 20.0),
	}

	got := New(3).Rank(in)

	names := []string{got[0].Name, got[1].Name, got[2].Name}
	assert.Equal(t, []string{"cheap", "first", "second"}, names)
}

func TestRank_FewerThanK(t *testing.T) {
	assert.Empty(t, New(3).Rank(nil))

	got := New(3).Rank([]entity.Product{product("only", 1.0)})
	assert.Len(t, got, 1)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []entity.Product{product("a", 3), product("b", 1), product("c", 2)}

	_ = New(3).Rank(in)

	assert.Equal(t, []float64{3, 1, 2}, prices(in))
}

func TestNew_DefaultTopK(t *testing.T) {
	assert.Equal(t, DefaultTopK, New(0).topK)
	assert.Equal(t, DefaultTopK, New(-1).topK)
}

func TestProperty_RankIsSortedStablePrefix(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "n")
		in := make([]entity.Product, n)
		for i := range in {
			// few distinct values so ties are common
			price := float64(rapid.IntRange(0, 5).Draw(rt, "price")) * 10
			in[i] = product(fmt.Sprintf("p%02d", i), price)
		}

		got := New(DefaultTopK).Rank(in)

		require.Len(rt, got, min(n, DefaultTopK))
		for i := 1; i < len(got); i++ {
			prev, cur := sortKey(got[i-1]), sortKey(got[i])
			require.LessOrEqual(rt, prev, cur)
			if prev == cur {
				assert.Less(rt, got[i-1].Name, got[i].Name, "ties keep input order")
			}
		}

		priced := 0
		for _, p := range in {
			if p.HasPrice() {
				priced++
			}
		}
		for i, p := range got {
			if i < priced {
				assert.True(rt, p.HasPrice(), "priced products come before unpriced ones")
			}
		}
	})
}
