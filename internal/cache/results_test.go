package cache

import (
	"testing"
	"time"

	"github.com/prodtext/refinery/internal/model"
	"github.com/prodtext/refinery/internal/refine"
)

func sampleResult(title string) *refine.RefineResult {
	return &refine.RefineResult{
		Bundle:   &model.ContentBundle{Title: title},
		Attempts: 1,
	}
}

func TestResultCacheSetGet(t *testing.T) {
	c := NewResultCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("empty cache reported a hit")
	}

	c.Set("fp1", sampleResult("Acme Widget"))
	got, found := c.Get("fp1")
	if !found {
		t.Fatal("expected cache hit")
	}
	if got.Bundle.Title != "Acme Widget" {
		t.Errorf("cached title = %q", got.Bundle.Title)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestResultCacheSkipsFallbackResults(t *testing.T) {
	c := NewResultCache(time.Minute, time.Minute)

	fallback := sampleResult("Acme Widget")
	fallback.Fallback = true
	c.Set("fp1", fallback)
	c.Set("fp2", nil)

	if _, found := c.Get("fp1"); found {
		t.Error("fallback result should not be cached")
	}
	if _, found := c.Get("fp2"); found {
		t.Error("nil result should not be cached")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestResultCacheExpiry(t *testing.T) {
	c := NewResultCache(10*time.Millisecond, time.Millisecond)

	c.Set("fp1", sampleResult("Acme Widget"))
	if _, found := c.Get("fp1"); !found {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(25 * time.Millisecond)
	if _, found := c.Get("fp1"); found {
		t.Error("expected miss after TTL expiry")
	}
}

func TestResultCacheFlush(t *testing.T) {
	c := NewResultCache(time.Minute, time.Minute)
	c.Set("fp1", sampleResult("A"))
	c.Set("fp2", sampleResult("B"))

	c.Flush()
	if c.Len() != 0 {
		t.Errorf("Len() after flush = %d, want 0", c.Len())
	}
}
