package roundid

import (
	"bytes"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	id := New()
	assert.Len(t, id, Length)
	assert.NoError(t, Validate(id))
	assert.LessOrEqual(t, id[0], byte('7'))
}

func TestNewIsUniqueAndOrdered(t *testing.T) {
	t.Parallel()

	ids := make([]string, 500)
	seen := make(map[string]bool)
	for i := range ids {
		ids[i] = New()
		require.False(t, seen[ids[i]], "duplicate ID %s", ids[i])
		seen[ids[i]] = true
	}

	assert.True(t, sort.StringsAreSorted(ids))
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	var max uuid.UUID
	for i := range max {
		max[i] = 0xff
	}

	tests := []struct {
		name string
		id   uuid.UUID
		want string
	}{
		{"zero", uuid.UUID{}, "00000000000000000000000000"},
		{"max", max, "7zzzzzzzzzzzzzzzzzzzzzzzzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			encoded := Encode(tt.id)
			assert.Equal(t, tt.want, encoded)

			decoded, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}

	id := uuid.Must(uuid.NewV7())
	decoded, err := Decode(Encode(id))
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}

func TestFromReader(t *testing.T) {
	t.Parallel()

	id, err := FromReader(bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)))
	require.NoError(t, err)
	assert.NoError(t, Validate(id))

	_, err = FromReader(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "01h455vb4pex5vsknk084sn02q", false},
		{"too short", "01h455vb4pex5vsknk084sn02", true},
		{"too long", "01h455vb4pex5vsknk084sn02qq", true},
		{"first character too large", "81h455vb4pex5vsknk084sn02q", true},
		{"excluded letter", "01h455vb4pex5vsknk084sn0iq", true},
		{"upper case", "01H455VB4PEX5VSKNK084SN02Q", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
