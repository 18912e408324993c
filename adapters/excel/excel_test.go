package excel

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmstat/domain/core"
	"farmstat/domain/dataset"
	"farmstat/internal/testkit"
)

func TestCSV_RoundTrip(t *testing.T) {
	farms := testkit.GenerateFarms(5)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, farms))

	firstLine := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, strings.Join(Header(), ","), firstLine)

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, farms, got)
}

func TestXLSX_RoundTrip(t *testing.T) {
	farms := testkit.GenerateFarms(6)[:25]

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, farms))

	got, err := ReadXLSX(&buf)
	require.NoError(t, err)
	assert.Equal(t, farms, got)
}

func TestReadCSV_ColumnOrderIsFree(t *testing.T) {
	in := "crop_type,farm_id,uses_growmax,yield_kg_per_hectare,soil_type,irrigation,rainfall_mm,altitude_m,farm_size_hectares,years_since_rotation,avg_march_temp_c\n" +
		"rice,7,1,5120.5,clay,drip,880.2,410,12.5,3,14.1\n" +
		",,,,,,,,,,\n"

	got, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, dataset.Record{
		FarmID: 7, UsesGrowMax: 1, YieldKgPerHectare: 5120.5, CropType: "rice", SoilType: "clay",
		Irrigation: "drip", RainfallMM: 880.2, AltitudeM: 410, FarmSizeHectares: 12.5,
		YearsSinceRotation: 3, AvgMarchTempC: 14.1,
	}, got[0])
}

func TestReadCSV_RejectsMalformedInput(t *testing.T) {
	header := strings.Join(Header(), ",")
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "missing header"},
		{"missing column", "farm_id,uses_growmax\n1,0\n", "missing column"},
		{"unknown column", header + ",ph\n", "unknown column"},
		{"duplicate column", header + ",farm_id\n", "duplicate column"},
		{"non-numeric", header + "\n1,0,lots,wheat,clay,drip,1,1,1,1,1\n", "row 2"},
		{"fractional discrete", header + "\n1.5,0,100,wheat,clay,drip,1,1,1,1,1\n", "not an integer"},
		{"unknown label", header + "\n1,0,100,barley,clay,drip,1,1,1,1,1\n", "barley"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrMalformedDataset), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDataReader_ReadsBothFormats(t *testing.T) {
	farms := testkit.GenerateFarms(8)
	dir := t.TempDir()

	for _, name := range []string{"farms.csv", "farms.xlsx"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, farms))

		got, err := NewDataReader(path, nil).ReadData()
		require.NoError(t, err, name)
		assert.Equal(t, farms, got, name)
	}

	_, err := NewDataReader(filepath.Join(dir, "absent.csv"), nil).ReadData()
	assert.Error(t, err)
}
