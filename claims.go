package securetoken

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// Reserved claim names, stamped on every issued token.
const (
	ClaimExpiration = "exp"
	ClaimIssuedAt   = "iat"
	ClaimID         = "jti"
)

// Claims is the ordered key-value payload of a token.
//
// Values are loosely typed: string, number, bool, slice, nested map or time.Time
// on the way in. On the way out JSON numbers become int64 when integral and
// float64 otherwise, nested objects become map[string]any and times become
// RFC 3339 strings. Top-level insertion order is preserved across a round-trip.
//
// A nil *Claims reads as empty and Set on it allocates new claims. Claims are not safe for concurrent mutation,
// every operation of this package works on its own copy.
type Claims struct {
	keys   []string
	values map[string]any
}

// NewClaims returns empty claims.
func NewClaims() *Claims {
	return &Claims{values: make(map[string]any)}
}

// ClaimsFromMap copies m into new claims. Go maps are unordered,
// so the keys are inserted in the order given by keys, then any remaining ones
// in map iteration order; pass the keys to get a deterministic payload.
func ClaimsFromMap(m map[string]any, keys ...string) *Claims {
	c := NewClaims()
	for _, k := range keys {
		if v, ok := m[k]; ok {
			c.Set(k, v)
		}
	}

	for k, v := range m {
		if !c.Has(k) {
			c.Set(k, v)
		}
	}

	return c
}

// Set inserts or replaces key. A replaced key keeps its original position.
// Set on nil claims returns new claims holding key.
func (c *Claims) Set(key string, value any) *Claims {
	if c == nil {
		return NewClaims().Set(key, value)
	}

	if c.values == nil {
		c.values = make(map[string]any)
	}

	if _, exists := c.values[key]; !exists {
		c.keys = append(c.keys, key)
	}

	c.values[key] = value
	return c
}

// Get returns the value of key.
func (c *Claims) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}

	v, ok := c.values[key]
	return v, ok
}

// Has reports whether key is present.
func (c *Claims) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes key if present.
func (c *Claims) Delete(key string) {
	if c == nil {
		return
	}

	if _, ok := c.values[key]; !ok {
		return
	}

	delete(c.values, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i:i], c.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of claims.
func (c *Claims) Len() int {
	if c == nil {
		return 0
	}

	return len(c.keys)
}

// Keys returns a copy of the keys in insertion order.
func (c *Claims) Keys() []string {
	if c == nil {
		return []string{}
	}

	return append([]string(nil), c.keys...)
}

// Map returns an unordered copy of the claims.
func (c *Claims) Map() map[string]any {
	m := make(map[string]any, c.Len())
	if c == nil {
		return m
	}

	for k, v := range c.values {
		m[k] = v
	}

	return m
}

// Clone returns a shallow copy.
func (c *Claims) Clone() *Claims {
	cp := NewClaims()
	if c == nil {
		return cp
	}

	for _, k := range c.keys {
		cp.Set(k, c.values[k])
	}

	return cp
}

// Project returns the claims whose keys are listed, in the order of keys.
// Listing nothing selects nothing: the result is empty, never the full set.
func (c *Claims) Project(keys ...string) *Claims {
	out := NewClaims()
	for _, k := range keys {
		if v, ok := c.Get(k); ok {
			out.Set(k, v)
		}
	}

	return out
}

// ProjectExcept returns the claims whose keys are not listed, in insertion order.
// Listing nothing excludes nothing: the result is a full copy.
func (c *Claims) ProjectExcept(keys ...string) *Claims {
	out := c.Clone()
	for _, k := range keys {
		out.Delete(k)
	}

	return out
}

// Expiration returns the "exp" claim.
func (c *Claims) Expiration() (time.Time, bool) {
	return c.numericDate(ClaimExpiration)
}

// IssuedAt returns the "iat" claim.
func (c *Claims) IssuedAt() (time.Time, bool) {
	return c.numericDate(ClaimIssuedAt)
}

// ID returns the "jti" claim.
func (c *Claims) ID() (string, bool) {
	v, ok := c.Get(ClaimID)
	if !ok {
		return "", false
	}

	id, ok := v.(string)
	return id, ok
}

func (c *Claims) numericDate(key string) (time.Time, bool) {
	v, ok := c.Get(key)
	if !ok {
		return time.Time{}, false
	}

	switch n := v.(type) {
	case int64:
		return time.Unix(n, 0), true
	case int:
		return time.Unix(int64(n), 0), true
	case float64:
		sec := int64(n)
		return time.Unix(sec, int64((n-float64(sec))*float64(time.Second))), true
	default:
		return time.Time{}, false
	}
}

// MarshalJSON encodes the claims as a JSON object in insertion order.
func (c *Claims) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(c.values[k])
		if err != nil {
			return nil, fmt.Errorf("claim %q: %w", k, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

var errClaimsNotObject = errors.New("claims: payload is not a JSON object")

// UnmarshalJSON decodes a JSON object keeping the order of its top-level keys.
// Duplicate keys are rejected.
func (c *Claims) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errClaimsNotObject
	}

	decoded := NewClaims()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		key, ok := tok.(string)
		if !ok {
			return errClaimsNotObject
		}

		if decoded.Has(key) {
			return fmt.Errorf("claims: duplicate key %q", key)
		}

		var value any
		if err = dec.Decode(&value); err != nil {
			return err
		}

		decoded.Set(key, normalizeNumbers(value))
	}

	if _, err = dec.Token(); err != nil { // closing brace.
		return err
	}

	if _, err = dec.Token(); err != io.EOF {
		return errClaimsNotObject
	}

	*c = *decoded
	return nil
}

// normalizeNumbers replaces json.Number values, at any depth, with int64 or float64.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}

		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = normalizeNumbers(t[i])
		}

		return t
	case map[string]any:
		for k := range t {
			t[k] = normalizeNumbers(t[k])
		}

		return t
	default:
		return v
	}
}

// encodeClaims stamps the reserved claims on a copy of claims and serializes it.
// "exp" is issuedAt+ttl truncated to whole seconds, "iat" is now, "jti" is id.
func encodeClaims(claims *Claims, ttl time.Duration, now time.Time, id string) ([]byte, error) {
	stamped := claims.Clone()

	issuedAt := now.Unix()
	stamped.Set(ClaimExpiration, issuedAt+int64(ttl/time.Second))
	stamped.Set(ClaimIssuedAt, issuedAt)
	stamped.Set(ClaimID, id)

	return stamped.MarshalJSON()
}

// decodeClaims parses a verified payload.
func decodeClaims(payload []byte) (*Claims, error) {
	claims := NewClaims()
	if err := claims.UnmarshalJSON(payload); err != nil {
		return nil, err
	}

	return claims, nil
}
