package http

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modaics/go-backend/pkg/e"
)

func TestParsePriceToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{name: "целое", input: "600", want: 60000},
		{name: "с копейками", input: "599.99", want: 59999},
		{name: "ноль", input: "0", want: 0},
		{name: "пробелы", input: "  ", wantErr: e.ErrInvalidPrice},
		{name: "не число", input: "abc", wantErr: e.ErrInvalidPrice},
		{name: "отрицательная", input: "-1", wantErr: e.ErrInvalidPrice},
		{name: "три знака после запятой", input: "10.999", wantErr: e.ErrPricePrecision},
		{name: "слишком большая", input: "1000000001", wantErr: e.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePriceToCents(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeBase64Image(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	encoded := base64.StdEncoding.EncodeToString(raw)

	got, err := decodeBase64Image(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	// data-URL тоже принимается
	got, err = decodeBase64Image("data:image/jpeg;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	_, err = decodeBase64Image("")
	assert.ErrorIs(t, err, e.ErrNoImages)

	_, err = decodeBase64Image("&&&not-base64&&&")
	assert.ErrorIs(t, err, e.ErrInvalidBase64)
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = parseIDs("")
	assert.ErrorIs(t, err, e.ErrMissingFields)

	_, err = parseIDs("1,abc")
	assert.ErrorIs(t, err, e.ErrStatusBadRequest)

	_, err = parseIDs("0")
	assert.ErrorIs(t, err, e.ErrStatusBadRequest)
}
