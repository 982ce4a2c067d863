package microdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentsim/rentsim/sim/industry"
	"github.com/rentsim/rentsim/sim/internal/testutil"
)

// mkRow builds one microdata CSV row. Defaults describe an employed renter
// in Manufacturing; mutate adjusts individual columns in place.
func mkRow(householdID, personID string, mutate func(row []string)) []string {
	row := []string{
		householdID, personID, "100", "90",
		"30000", "employed", "2090",
		"1800", "2400", "2100",
		"52000", "1450", "true",
		"New York City", "Kings", "NY",
	}
	if mutate != nil {
		mutate(row)
	}
	return row
}

// writeMicrodata builds an extract fixture under t.TempDir, prepending the
// expected header.
func writeMicrodata(t *testing.T, rows [][]string) string {
	t.Helper()
	records := append([][]string{personColumns}, rows...)
	return testutil.WriteCSV(t, t.TempDir(), "microdata.csv", records)
}

// === Load Tests ===

func TestLoad_GroupsHouseholds(t *testing.T) {
	path := writeMicrodata(t, [][]string{
		mkRow("h1", "p1", nil),
		mkRow("h1", "p2", func(row []string) {
			row[2] = "110"         // person_weight
			row[4] = "0"           // wage_income
			row[5] = "nilf"        // employment_status
			row[6] = "7860"        // industry_code: Education and Health
			row[7], row[8], row[9] = "0", "0", "0"
		}),
		mkRow("h2", "p3", func(row []string) {
			row[3] = "75"      // household_weight
			row[10] = "41000"  // household_income
			row[11] = "0"      // gross_rent
			row[12] = "false"  // is_renter
			row[13] = ""       // city
			row[14] = "Albany" // county
		}),
	})

	data, err := Load(path)
	require.NoError(t, err)

	require.Len(t, data.Persons, 3)
	require.Len(t, data.Households, 2)
	assert.Equal(t, 0, data.Unclassified)

	h1, ok := data.HouseholdByID("h1")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, h1.Members)
	assert.Equal(t, 90.0, h1.Weight)
	assert.Equal(t, 52000.0, h1.Income)
	assert.Equal(t, 1450.0, h1.GrossRent)
	assert.True(t, h1.Renter)
	assert.Equal(t, "New York City", h1.City)
	assert.Equal(t, "Kings", h1.County)
	assert.Equal(t, "NY", h1.State)

	h2, ok := data.HouseholdByID("h2")
	require.True(t, ok)
	assert.Equal(t, []int{2}, h2.Members)
	assert.False(t, h2.Renter)
	assert.Equal(t, "", h2.City)
	assert.Equal(t, "Albany", h2.County)

	p1 := data.Persons[0]
	assert.Equal(t, 100.0, p1.Weight)
	assert.Equal(t, 30000.0, p1.WageIncome)
	assert.Equal(t, Employed, p1.Status)
	assert.Equal(t, industry.Manufacturing, p1.Industry)
	assert.Equal(t, 1800.0, p1.BenefitRegular)
	assert.Equal(t, 2400.0, p1.Benefit600)
	assert.Equal(t, 2100.0, p1.Benefit300)

	p2 := data.Persons[1]
	assert.Equal(t, NotInLaborForce, p2.Status)
	assert.Equal(t, industry.EducationHealth, p2.Industry)
	assert.Equal(t, 0, p2.Household)
}

func TestLoad_DropsUnclassifiedRecords(t *testing.T) {
	// Code 170 (agriculture) falls outside every crosswalk range. Household
	// h2 has no other members, so it never enters the universe at all.
	path := writeMicrodata(t, [][]string{
		mkRow("h1", "p1", nil),
		mkRow("h1", "p2", func(row []string) { row[6] = "170" }),
		mkRow("h2", "p3", func(row []string) { row[6] = "170" }),
	})

	data, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, data.Unclassified)
	require.Len(t, data.Persons, 1)
	assert.Equal(t, "p1", data.Persons[0].PersonID)

	h1, ok := data.HouseholdByID("h1")
	require.True(t, ok)
	assert.Equal(t, []int{0}, h1.Members)

	_, ok = data.HouseholdByID("h2")
	assert.False(t, ok)
}

func TestLoad_HeaderMismatch_ReturnsError(t *testing.T) {
	header := append([]string{}, personColumns...)
	header[4] = "wages"
	path := testutil.WriteCSV(t, t.TempDir(), "microdata.csv", [][]string{header, mkRow("h1", "p1", nil)})

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header column 5")
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load(t.TempDir() + "/absent.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening microdata")
}

func TestLoad_FieldValidation(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(row []string)
		wantSubstr string
	}{
		{"empty household id", func(row []string) { row[0] = "" }, "household_id"},
		{"empty person id", func(row []string) { row[1] = "" }, "person_id"},
		{"zero person weight", func(row []string) { row[2] = "0" }, "person_weight"},
		{"negative household weight", func(row []string) { row[3] = "-5" }, "household_weight"},
		{"negative wage", func(row []string) { row[4] = "-1" }, "wage_income"},
		{"unknown status", func(row []string) { row[5] = "retired" }, "employment_status"},
		{"non-integer industry code", func(row []string) { row[6] = "20.9" }, "industry_code"},
		{"negative industry code", func(row []string) { row[6] = "-170" }, "industry_code"},
		{"negative benefit", func(row []string) { row[7] = "-100" }, "benefit_regular"},
		{"infinite household income", func(row []string) { row[10] = "Inf" }, "household_income"},
		{"negative rent", func(row []string) { row[11] = "-1450" }, "gross_rent"},
		{"bad renter flag", func(row []string) { row[12] = "yes" }, "is_renter"},
		{"empty state", func(row []string) { row[15] = "" }, "state"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeMicrodata(t, [][]string{mkRow("h1", "p1", tc.mutate)})
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "microdata row 2")
			assert.Contains(t, err.Error(), tc.wantSubstr)
		})
	}
}

func TestLoad_NegativeHouseholdIncomeAllowed(t *testing.T) {
	// Self-employment losses can push reported household income below zero.
	path := writeMicrodata(t, [][]string{
		mkRow("h1", "p1", func(row []string) { row[10] = "-2500" }),
	})

	data, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, -2500.0, data.Households[0].Income)
}

func TestLoad_HouseholdRentMismatch_ReturnsError(t *testing.T) {
	path := writeMicrodata(t, [][]string{
		mkRow("h1", "p1", nil),
		mkRow("h1", "p2", func(row []string) { row[11] = "1500" }),
	})

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gross_rent")
	assert.Contains(t, err.Error(), "disagrees")
}

func TestLoad_HouseholdGeographyMismatch_ReturnsError(t *testing.T) {
	path := writeMicrodata(t, [][]string{
		mkRow("h1", "p1", nil),
		mkRow("h1", "p2", func(row []string) { row[14] = "Queens" }),
	})

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geography disagrees")
}

func TestLoad_HouseholdWeightMismatch_ReturnsError(t *testing.T) {
	path := writeMicrodata(t, [][]string{
		mkRow("h1", "p1", nil),
		mkRow("h1", "p2", func(row []string) { row[3] = "91" }),
	})

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "household_weight")
}

func TestLoad_ConsistencySkipsDroppedRows(t *testing.T) {
	// An unclassified row never registers its household, so a later
	// classified row with different household columns wins unchallenged.
	// Consistency is only enforced between rows that survive filtering.
	path := writeMicrodata(t, [][]string{
		mkRow("h1", "p1", func(row []string) {
			row[6] = "170"
			row[11] = "9999"
		}),
		mkRow("h1", "p2", nil),
	})

	data, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, data.Unclassified)
	assert.Equal(t, 1450.0, data.Households[0].GrossRent)
}
