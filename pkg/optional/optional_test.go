// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package optional_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/darkshelf/pkg/optional"
)

type patch struct {
	Title optional.Value[string] `json:"title,omitzero"`
	Year  optional.Value[*int]   `json:"year,omitzero"`
}

/*
TestValue_Presence distinguishes absent, null and concrete JSON fields.
*/
func TestValue_Presence(t *testing.T) {
	var absent patch
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Title.IsSet())
	assert.False(t, absent.Year.IsSet())

	var cleared patch
	require.NoError(t, json.Unmarshal([]byte(`{"year":null}`), &cleared))
	year, ok := cleared.Year.Get()
	assert.True(t, ok)
	assert.Nil(t, year)

	var concrete patch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Vampire: The Masquerade","year":1991}`), &concrete))
	title, ok := concrete.Title.Get()
	assert.True(t, ok)
	assert.Equal(t, "Vampire: The Masquerade", title)
	year, _ = concrete.Year.Get()
	require.NotNil(t, year)
	assert.Equal(t, 1991, *year)
}

/*
TestValue_TypeMismatch surfaces decode errors instead of marking the field set.
*/
func TestValue_TypeMismatch(t *testing.T) {
	var p patch
	err := json.Unmarshal([]byte(`{"title":12}`), &p)
	assert.Error(t, err)
}

/*
TestOf builds a set value directly.
*/
func TestOf(t *testing.T) {
	v := optional.Of(true)
	got, ok := v.Get()
	assert.True(t, ok)
	assert.True(t, got)

	encoded, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "true", string(encoded))
}

/*
TestValue_OmitZero drops unset fields and keeps explicit nulls when encoding.
*/
func TestValue_OmitZero(t *testing.T) {
	encoded, err := json.Marshal(patch{Year: optional.Of[*int](nil)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":null}`, string(encoded))

	encoded, err = json.Marshal(patch{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(encoded))
}
