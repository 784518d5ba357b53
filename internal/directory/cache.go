package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/EO-DataHub/eodhp-directory-admin/models"
)

// MergeFunc combines the cached value of an entity field with the value that
// just arrived. existing is nil when the field has never been cached.
type MergeFunc func(existing, incoming any) any

// ref points at a normalized entity in the cache.
type ref string

// Cache is a process-local normalized store of directory entities. Objects
// carrying __typename and id are stored once under "<__typename>:<id>" and
// every response referencing them sees the merged result.
type Cache struct {
	mu       sync.Mutex
	entities map[string]map[string]any
	policies map[string]MergeFunc
}

// NewCache returns an empty cache with the attribute merge policy registered
// for users and groups.
func NewCache() *Cache {
	c := &Cache{
		entities: make(map[string]map[string]any),
		policies: make(map[string]MergeFunc),
	}
	c.SetPolicy("User", "attributes", MergeAttributes)
	c.SetPolicy("Group", "attributes", MergeAttributes)
	return c
}

type cacheKey struct{}

// WithCache returns a copy of ctx whose directory operations read and write
// cache instead of the client's own.
func WithCache(ctx context.Context, cache *Cache) context.Context {
	return context.WithValue(ctx, cacheKey{}, cache)
}

// CacheFromContext returns the cache stored by WithCache.
func CacheFromContext(ctx context.Context) (*Cache, bool) {
	cache, ok := ctx.Value(cacheKey{}).(*Cache)
	return cache, ok && cache != nil
}

// SetPolicy registers fn as the merge function for field of typename.
func (c *Cache) SetPolicy(typename, field string, fn MergeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policies[typename+"."+field] = fn
}

// Apply writes a response tree into the cache and returns the tree read back
// from it, so merged fields are visible to the caller. The whole response is
// applied under one lock.
func (c *Cache) Apply(data map[string]any) map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	normalized := c.write(data)
	result, _ := c.read(normalized, data).(map[string]any)
	return result
}

// Entity returns a copy of the cached fields of the entity stored under key.
// Nested entities are returned as {__typename, id} stubs.
func (c *Cache) Entity(key string) (map[string]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entity, ok := c.entities[key]
	if !ok {
		return nil, false
	}
	return c.stub(entity).(map[string]any), true
}

// Len returns the number of cached entities.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entities)
}

// Reset drops every cached entity.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entities = make(map[string]map[string]any)
}

// EntityKey returns the cache key for an entity of the given type and id.
func EntityKey(typename string, id any) string {
	return fmt.Sprintf("%s:%v", typename, id)
}

func entityKey(object map[string]any) (string, string, bool) {
	typename, ok := object["__typename"].(string)
	if !ok || typename == "" {
		return "", "", false
	}
	id, ok := object["id"]
	if !ok || id == nil {
		return "", "", false
	}
	return EntityKey(typename, id), typename, true
}

func (c *Cache) write(value any) any {
	switch v := value.(type) {
	case map[string]any:
		normalized := make(map[string]any, len(v))
		for _, name := range sortedKeys(v) {
			normalized[name] = c.write(v[name])
		}
		key, typename, ok := entityKey(v)
		if !ok {
			return normalized
		}
		c.merge(key, typename, normalized)
		return ref(key)
	case []any:
		normalized := make([]any, len(v))
		for i, item := range v {
			normalized[i] = c.write(item)
		}
		return normalized
	}
	return value
}

func (c *Cache) merge(key, typename string, incoming map[string]any) {
	entity, ok := c.entities[key]
	if !ok {
		entity = make(map[string]any, len(incoming))
		c.entities[key] = entity
	}

	for _, name := range sortedKeys(incoming) {
		value := incoming[name]
		if policy, ok := c.policies[typename+"."+name]; ok {
			value = policy(entity[name], value)
		}
		entity[name] = value
	}
}

// read denormalizes value following the field selection of shape, which is
// the response object as it arrived.
func (c *Cache) read(value, shape any) any {
	switch v := value.(type) {
	case ref:
		entity := c.entities[string(v)]
		fields, ok := shape.(map[string]any)
		if !ok {
			return c.stub(entity)
		}
		out := make(map[string]any, len(fields))
		for name, child := range fields {
			out[name] = c.read(entity[name], child)
		}
		return out
	case map[string]any:
		fields, _ := shape.(map[string]any)
		out := make(map[string]any, len(v))
		for name, child := range v {
			out[name] = c.read(child, fields[name])
		}
		return out
	case []any:
		items, _ := shape.([]any)
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = c.read(item, elementShape(items, i))
		}
		return out
	}
	return value
}

// stub copies value, replacing nested entity references with their keys.
func (c *Cache) stub(value any) any {
	switch v := value.(type) {
	case ref:
		entity := c.entities[string(v)]
		return map[string]any{"__typename": entity["__typename"], "id": entity["id"]}
	case map[string]any:
		out := make(map[string]any, len(v))
		for name, child := range v {
			out[name] = c.stub(child)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = c.stub(item)
		}
		return out
	}
	return value
}

func elementShape(items []any, i int) any {
	switch {
	case i < len(items):
		return items[i]
	case len(items) > 0:
		return items[0]
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MergeAttributes is the merge policy of the attributes field. Cached entries
// keep their position, a same-name incoming entry replaces the cached one and
// new names are appended.
func MergeAttributes(existing, incoming any) any {
	var current, next []models.Attribute
	if err := remarshal(existing, &current); err != nil {
		return incoming
	}
	if err := remarshal(incoming, &next); err != nil {
		return incoming
	}

	var merged []any
	if err := remarshal(models.MergeAttributes(current, next), &merged); err != nil {
		return incoming
	}
	return merged
}

func remarshal(in, out any) error {
	if in == nil {
		return nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
