package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainOf(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"https://www.atbmarket.com/catalog/285": "atbmarket.com",
		"https://ATBMARKET.com/product/1":       "atbmarket.com",
		"https://silpo.ua:443/category/1":       "silpo.ua",
		"novus.online/x":                        "novus.online/x",
	}
	for raw, want := range tests {
		assert.Equal(t, want, domainOf(raw), raw)
	}
}

func TestDomainLimiter_Unlimited(t *testing.T) {
	t.Parallel()

	l := NewDomainLimiter(0, 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for range 100 {
		require.NoError(t, l.Wait(ctx, "https://www.atbmarket.com/p"))
	}
}

func TestDomainLimiter_SharesBucketAcrossWWW(t *testing.T) {
	t.Parallel()

	l := NewDomainLimiter(0.1, 1)
	require.NoError(t, l.Wait(context.Background(), "https://www.atbmarket.com/a"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.Error(t, l.Wait(ctx, "https://atbmarket.com/b"), "second navigation must wait ~10s")

	require.NoError(t, l.Wait(context.Background(), "https://silpo.ua/c"), "other domains have their own bucket")
}
