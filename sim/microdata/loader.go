package microdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/rentsim/rentsim/sim/industry"
)

// CSV column headers for the person-level extract. Column order is part of
// the data-preparation contract.
var personColumns = []string{
	"household_id", "person_id", "person_weight", "household_weight",
	"wage_income", "employment_status", "industry_code",
	"benefit_regular", "benefit_600", "benefit_300",
	"household_income", "gross_rent", "is_renter",
	"city", "county", "state",
}

// Load reads the person-level extract, classifies industries, drops
// unclassified records from the universe, and groups the rest into
// households. Household-level columns must repeat identically on every row
// of a household; a mismatch means a bad upstream join and is an error.
func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening microdata: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading microdata header: %w", err)
	}
	if err := checkHeader(header, personColumns); err != nil {
		return nil, fmt.Errorf("microdata: %w", err)
	}

	var persons []Person
	var households []Household
	houseRow := make(map[string]int) // household id -> index into households
	unclassified := 0

	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading microdata row: %w", err)
		}
		rowNum++

		person, house, err := parsePersonRow(row, rowNum)
		if err != nil {
			return nil, err
		}

		group, ok := industry.Classify(person.IndustryCode)
		if !ok {
			unclassified++
			continue
		}
		person.Industry = group

		if hi, seen := houseRow[house.ID]; seen {
			if err := checkHouseholdConsistency(&households[hi], house, rowNum); err != nil {
				return nil, err
			}
		} else {
			houseRow[house.ID] = len(households)
			households = append(households, *house)
		}
		persons = append(persons, *person)
	}

	data, err := NewDataset(persons, households)
	if err != nil {
		return nil, fmt.Errorf("microdata: %w", err)
	}
	data.Unclassified = unclassified

	logrus.Infof("loaded %d person records in %d households from %s (%d unclassified dropped)",
		len(data.Persons), len(data.Households), path, unclassified)
	return data, nil
}

// parsePersonRow splits one CSV row into its person- and household-level
// parts, validating every field.
func parsePersonRow(row []string, rowNum int) (*Person, *Household, error) {
	if len(row) != len(personColumns) {
		return nil, nil, fmt.Errorf("microdata row %d has %d columns, expected %d", rowNum, len(row), len(personColumns))
	}

	fail := func(col string, err error) (*Person, *Household, error) {
		return nil, nil, fmt.Errorf("microdata row %d: %s: %v", rowNum, col, err)
	}

	householdID := row[0]
	personID := row[1]
	if householdID == "" {
		return fail("household_id", fmt.Errorf("must not be empty"))
	}
	if personID == "" {
		return fail("person_id", fmt.Errorf("must not be empty"))
	}

	personWeight, err := parsePositiveFloat(row[2])
	if err != nil {
		return fail("person_weight", err)
	}
	householdWeight, err := parsePositiveFloat(row[3])
	if err != nil {
		return fail("household_weight", err)
	}
	wage, err := parseNonNegativeFloat(row[4])
	if err != nil {
		return fail("wage_income", err)
	}

	status := EmploymentStatus(row[5])
	if !validStatuses[status] {
		return fail("employment_status", fmt.Errorf("unknown value %q; valid: employed, unemployed, nilf", row[5]))
	}

	industryCode, err := strconv.Atoi(row[6])
	if err != nil {
		return fail("industry_code", fmt.Errorf("%q is not an integer", row[6]))
	}
	if industryCode < 0 {
		return fail("industry_code", fmt.Errorf("must be non-negative, got %d", industryCode))
	}

	benefitRegular, err := parseNonNegativeFloat(row[7])
	if err != nil {
		return fail("benefit_regular", err)
	}
	benefit600, err := parseNonNegativeFloat(row[8])
	if err != nil {
		return fail("benefit_600", err)
	}
	benefit300, err := parseNonNegativeFloat(row[9])
	if err != nil {
		return fail("benefit_300", err)
	}

	income, err := parseFiniteFloat(row[10])
	if err != nil {
		return fail("household_income", err)
	}
	rent, err := parseNonNegativeFloat(row[11])
	if err != nil {
		return fail("gross_rent", err)
	}
	renter, err := strconv.ParseBool(row[12])
	if err != nil {
		return fail("is_renter", fmt.Errorf("%q is not a boolean", row[12]))
	}

	state := row[15]
	if state == "" {
		return fail("state", fmt.Errorf("must not be empty"))
	}

	person := &Person{
		HouseholdID:    householdID,
		PersonID:       personID,
		Weight:         personWeight,
		WageIncome:     wage,
		Status:         status,
		IndustryCode:   industryCode,
		BenefitRegular: benefitRegular,
		Benefit600:     benefit600,
		Benefit300:     benefit300,
	}
	house := &Household{
		ID:        householdID,
		Weight:    householdWeight,
		Income:    income,
		GrossRent: rent,
		Renter:    renter,
		City:      row[13],
		County:    row[14],
		State:     state,
	}
	return person, house, nil
}

// checkHouseholdConsistency rejects rows whose household-level columns
// disagree with an earlier row of the same household.
func checkHouseholdConsistency(have *Household, got *Household, rowNum int) error {
	switch {
	case have.Weight != got.Weight:
		return fmt.Errorf("microdata row %d: household_weight %f disagrees with earlier rows of household %q (%f)", rowNum, got.Weight, have.ID, have.Weight)
	case have.Income != got.Income:
		return fmt.Errorf("microdata row %d: household_income %f disagrees with earlier rows of household %q (%f)", rowNum, got.Income, have.ID, have.Income)
	case have.GrossRent != got.GrossRent:
		return fmt.Errorf("microdata row %d: gross_rent %f disagrees with earlier rows of household %q (%f)", rowNum, got.GrossRent, have.ID, have.GrossRent)
	case have.Renter != got.Renter:
		return fmt.Errorf("microdata row %d: is_renter disagrees with earlier rows of household %q", rowNum, have.ID)
	case have.City != got.City || have.County != got.County || have.State != got.State:
		return fmt.Errorf("microdata row %d: geography disagrees with earlier rows of household %q", rowNum, have.ID)
	}
	return nil
}

func parseFiniteFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("must be finite, got %f", v)
	}
	return v, nil
}

func parseNonNegativeFloat(s string) (float64, error) {
	v, err := parseFiniteFloat(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("must be non-negative, got %f", v)
	}
	return v, nil
}

func parsePositiveFloat(s string) (float64, error) {
	v, err := parseFiniteFloat(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %f", v)
	}
	return v, nil
}

// checkHeader verifies a CSV header row matches the expected columns exactly.
func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("header has %d columns, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("header column %d is %q, expected %q", i+1, got[i], want[i])
		}
	}
	return nil
}
