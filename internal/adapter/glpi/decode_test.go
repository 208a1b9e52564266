package glpi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpulse/deskpulse/internal/domain"
)

func TestFlexInt(t *testing.T) {
	tests := []struct {
		input string
		set   bool
		value int64
	}{
		{`12`, true, 12},
		{`"12"`, true, 12},
		{`" 7 "`, true, 7},
		{`12.0`, true, 12},
		{`null`, false, 0},
		{`""`, false, 0},
		{`"abc"`, false, 0},
		{`true`, true, 1},
		{`false`, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f flexInt
			require.NoError(t, json.Unmarshal([]byte(tt.input), &f))
			assert.Equal(t, tt.set, f.set)
			assert.Equal(t, tt.value, f.value)
		})
	}
}

func TestLookupNames(t *testing.T) {
	var users []rawUser
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": 1, "name": "jdoe", "realname": "Doe", "is_active": 1},
		{"id": 2, "name": "ghost", "is_active": 0},
		{"id": 3, "name": "", "realname": null, "is_active": "1"},
		{"id": 4, "name": "nobody"}
	]`), &users))

	assert.Equal(t, []domain.LookupItem{{ID: 1, Name: "Doe"}, {ID: 3, Name: "User 3"}}, userItems(users))

	var categories []rawCategory
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": 1, "name": "Rede", "completename": "TI > Rede"},
		{"id": 2, "name": "Hardware"},
		{"id": 3}
	]`), &categories))

	assert.Equal(t, []domain.LookupItem{
		{ID: 1, Name: "TI > Rede"},
		{ID: 2, Name: "Hardware"},
		{ID: 3, Name: "Category 3"},
	}, categoryItems(categories))

	var groups []rawGroup
	require.NoError(t, json.Unmarshal([]byte(`[{"id": 9}]`), &groups))
	assert.Equal(t, []domain.LookupItem{{ID: 9, Name: "Group 9"}}, groupItems(groups))
}

func TestDecodeListIgnoresNonArrays(t *testing.T) {
	var out []rawGroup
	require.NoError(t, decodeList([]byte(`{}`), &out))
	assert.Empty(t, out)

	assert.Error(t, decodeList([]byte(`[{"id": 1},`), &out))
}
