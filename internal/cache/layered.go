package cache

import (
	"time"

	"github.com/hashicorp/go-multierror"
)

// LayeredCache reads through its layers fastest first. A hit in a slower
// layer is copied into every faster layer; writes go to all layers.
type LayeredCache struct {
	layers []Cache
}

// NewLayered stacks caches, fastest first
func NewLayered(layers ...Cache) *LayeredCache {
	return &LayeredCache{layers: layers}
}

// NewLayeredCache stacks a memory cache over a disk cache in dir
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return NewLayered(
		NewMemoryCache(memoryTTL, 10*time.Minute),
		NewDiskCache(diskDir, diskTTL),
	)
}

// Get returns the first hit, back-filling the layers above it
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	for i, layer := range c.layers {
		val, found := layer.Get(key)
		if !found {
			continue
		}
		for _, faster := range c.layers[:i] {
			_ = faster.Set(key, val, 0)
		}
		return val, true
	}
	return nil, false
}

// Set stores a value in every layer. Faster layers keep their own default TTL.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	var result *multierror.Error
	last := len(c.layers) - 1
	for i, layer := range c.layers {
		layerTTL := time.Duration(0)
		if i == last {
			layerTTL = ttl
		}
		result = multierror.Append(result, layer.Set(key, value, layerTTL))
	}
	return result.ErrorOrNil()
}

// Delete removes a value from every layer
func (c *LayeredCache) Delete(key string) error {
	var result *multierror.Error
	for _, layer := range c.layers {
		result = multierror.Append(result, layer.Delete(key))
	}
	return result.ErrorOrNil()
}

// Clear empties every layer
func (c *LayeredCache) Clear() error {
	var result *multierror.Error
	for _, layer := range c.layers {
		result = multierror.Append(result, layer.Clear())
	}
	return result.ErrorOrNil()
}
