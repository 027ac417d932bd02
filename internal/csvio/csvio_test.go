package csvio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/column"
	"nodeframe/internal/csvio"
	"nodeframe/internal/frame"
)

func TestReadInfersColumnKindsFromFirstRow(t *testing.T) {
	f, err := csvio.Read(strings.NewReader("id,price,city\n1,9.5,gdansk\n2,4.25,krakow\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, f.RowCount())
	assert.ElementsMatch(t, []string{"id", "price", "city"}, f.ColumnNames())

	id, _ := f.GetColumn("id")
	assert.Equal(t, column.KindInt, id.Kind())
	price, _ := f.GetColumn("price")
	assert.Equal(t, column.KindDouble, price.Kind())
	city, _ := f.GetColumn("city")
	assert.Equal(t, column.KindString, city.Kind())
}

func TestReadRecordsDefaultedCellOnParseFailure(t *testing.T) {
	f, err := csvio.Read(strings.NewReader("id\n1\nnot-a-number\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.DefaultedCellCount())
}

func TestReadEmptyReaderReturnsEmptyFrame(t *testing.T) {
	f, err := csvio.Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, f.Empty())
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddIntColumn("id", []int64{1, 2}))
	require.NoError(t, f.AddStringColumn("city", []string{"gdansk", "krakow"}))

	var buf strings.Builder
	require.NoError(t, csvio.Write(&buf, f))

	roundtripped, err := csvio.Read(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, 2, roundtripped.RowCount())
}
