package securetoken

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsOrder(t *testing.T) {
	claims := NewClaims().Set("z", 1).Set("a", 2).Set("m", 3)
	claims.Set("z", 10)

	b, err := claims.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":10,"a":2,"m":3}`, string(b))

	claims.Delete("a")
	assert.Equal(t, []string{"z", "m"}, claims.Keys())
	assert.Equal(t, 2, claims.Len())

	claims.Delete("missing")
	assert.Equal(t, 2, claims.Len())
}

func TestClaimsNil(t *testing.T) {
	var claims *Claims

	assert.Zero(t, claims.Len())
	assert.False(t, claims.Has("a"))
	assert.Empty(t, claims.Keys())
	assert.Empty(t, claims.Map())
	assert.Zero(t, claims.Clone().Len())
	assert.Zero(t, claims.Project("a").Len())
	claims.Delete("a")

	set := claims.Set("a", 1)
	require.NotNil(t, set)
	assert.Equal(t, []string{"a"}, set.Keys())
}

func TestClaimsUnmarshal(t *testing.T) {
	var claims Claims
	err := json.Unmarshal([]byte(`{"b":1,"a":1.5,"n":{"x":2,"y":[3,4.25]},"s":"v","t":true,"z":null}`), &claims)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "n", "s", "t", "z"}, claims.Keys())

	b, _ := claims.Get("b")
	assert.Equal(t, int64(1), b)

	a, _ := claims.Get("a")
	assert.Equal(t, 1.5, a)

	n, _ := claims.Get("n")
	assert.Equal(t, map[string]any{"x": int64(2), "y": []any{int64(3), 4.25}}, n)

	z, ok := claims.Get("z")
	assert.True(t, ok)
	assert.Nil(t, z)
}

func TestClaimsUnmarshalRejects(t *testing.T) {
	tests := map[string]string{
		"array":          `[1,2]`,
		"string":         `"claims"`,
		"duplicate key":  `{"a":1,"a":2}`,
		"trailing data":  `{"a":1}{"b":2}`,
		"truncated":      `{"a":1`,
		"trailing comma": `{"a":1,}`,
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := decodeClaims([]byte(payload))
			assert.Error(t, err)
		})
	}
}

func TestClaimsRoundTrip(t *testing.T) {
	issued := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	claims := NewClaims().
		Set("str", "value").
		Set("int", 7).
		Set("float", 0.5).
		Set("bool", false).
		Set("list", []string{"a", "b"}).
		Set("nested", map[string]any{"k": "v"}).
		Set("when", issued)

	b, err := claims.MarshalJSON()
	require.NoError(t, err)

	got, err := decodeClaims(b)
	require.NoError(t, err)

	assert.Equal(t, claims.Keys(), got.Keys())
	assert.Equal(t, map[string]any{
		"str":    "value",
		"int":    int64(7),
		"float":  0.5,
		"bool":   false,
		"list":   []any{"a", "b"},
		"nested": map[string]any{"k": "v"},
		"when":   issued.Format(time.RFC3339),
	}, got.Map())
}

func TestClaimsProject(t *testing.T) {
	claims := NewClaims().Set("a", 1).Set("b", 2).Set("c", 3)

	assert.Zero(t, claims.Project().Len(), "no keys select nothing")
	assert.Equal(t, []string{"c", "a"}, claims.Project("c", "a", "missing").Keys())

	assert.Equal(t, claims.Keys(), claims.ProjectExcept().Keys(), "no keys exclude nothing")
	assert.Equal(t, []string{"b"}, claims.ProjectExcept("c", "a", "missing").Keys())

	// Projections are copies.
	claims.ProjectExcept().Set("a", 100)
	a, _ := claims.Get("a")
	assert.Equal(t, 1, a)
}

func TestClaimsFromMap(t *testing.T) {
	claims := ClaimsFromMap(map[string]any{"b": 2, "a": 1, "c": 3}, "c", "a")

	keys := claims.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, []string{"c", "a", "b"}, keys)
}

func TestClaimsNumericDates(t *testing.T) {
	claims := NewClaims().
		Set(ClaimExpiration, int64(1700000000)).
		Set(ClaimIssuedAt, 1699999999.5).
		Set(ClaimID, 42)

	exp, ok := claims.Expiration()
	require.True(t, ok)
	assert.Equal(t, int64(1700000000), exp.Unix())

	iat, ok := claims.IssuedAt()
	require.True(t, ok)
	assert.Equal(t, int64(1699999999), iat.Unix())
	assert.Equal(t, 500*time.Millisecond, time.Duration(iat.Nanosecond()))

	_, ok = claims.ID()
	assert.False(t, ok, "a numeric jti is not an id")

	claims.Set(ClaimExpiration, "tomorrow")
	_, ok = claims.Expiration()
	assert.False(t, ok)
}

func TestEncodeClaims(t *testing.T) {
	b, err := encodeClaims(NewClaims().Set("name", "v"), 90*time.Second, testNow, "id-1")
	require.NoError(t, err)

	iat := testNow.Unix()
	expected := `{"name":"v","exp":` + jsonInt(iat+90) + `,"iat":` + jsonInt(iat) + `,"jti":"id-1"}`
	assert.Equal(t, expected, string(b))
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
