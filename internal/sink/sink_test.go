package sink

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docuflow/delivery-notes/internal/normalize"
)

var sampleRows = []normalize.Row{
	{
		Sender:             "supplier@example.com",
		ShippingAddress:    "Acme Corp, 1 Main St",
		Date:               "15/07/2022",
		ProductDescription: "Oak Table",
		Quantity:           "2",
		Price:              "120.00",
		RowTotal:           "240.00",
	},
	{
		Sender:          "supplier@example.com",
		ShippingAddress: "Acme Corp, 1 Main St",
		Date:            "15/07/2022",
		RowTotal:        "0.00",
	},
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	require.NoError(t, w.WriteRows(sampleRows[:1]))
	require.NoError(t, w.WriteRows(sampleRows[1:]))
	require.NoError(t, w.Flush())

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3, "header plus two rows")
	require.Equal(t, normalize.Header, recs[0])
	require.Equal(t, "Oak Table", recs[1][3])
	require.Equal(t, "", recs[2][3], "metadata-only row keeps blank item fields")
}

func TestXLSXWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewXLSXWriter(&buf, nil)
	require.NoError(t, err)
	require.NoError(t, w.WriteRows(sampleRows))
	require.NoError(t, w.Flush())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("DeliveryNotes")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	require.Equal(t, "sender", rows[0][0])
	require.Equal(t, "240.00", rows[1][6])
}
