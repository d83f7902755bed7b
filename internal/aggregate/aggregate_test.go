package aggregate

import (
	"testing"
	"time"

	"github.com/Veraticus/khata/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func plain(typ model.TransactionType, cat model.Category, amount string, date model.Date) model.Transaction {
	return model.Transaction{
		Type:        typ,
		Category:    cat,
		Amount:      dec(amount),
		PaymentMode: model.PaymentDigital,
		Date:        date,
	}
}

func farm(sub string, unit model.Unit, qty, amount string, date model.Date) model.Transaction {
	return model.Transaction{
		Type:        model.TypeIncome,
		Category:    model.CategoryFarming,
		Subcategory: sub,
		Amount:      dec(amount),
		PaymentMode: model.PaymentCash,
		Date:        date,
		FarmingDetails: &model.FarmingDetails{
			Quantity: dec(qty),
			Unit:     unit,
			SaleType: model.SaleMandi,
		},
	}
}

func TestSummarize_SalaryAndRent(t *testing.T) {
	txns := []model.Transaction{
		plain(model.TypeIncome, model.CategorySalary, "50000", model.NewDate(2024, time.November, 5)),
		plain(model.TypeExpense, model.CategoryRent, "12000", model.NewDate(2024, time.November, 3)),
		plain(model.TypeExpense, model.CategoryFood, "999", model.NewDate(2024, time.December, 1)),
	}

	s := Summarize(txns, "2024-11")
	assert.Equal(t, "2024-11", s.Month)
	assert.True(t, s.Income.Equal(dec("50000")))
	assert.True(t, s.Expenses.Equal(dec("12000")))
	assert.True(t, s.Balance.Equal(dec("38000")))
	assert.Equal(t, 2, s.Count)
	assert.True(t, s.Positive())
}

func TestSummarize_ExactDecimal(t *testing.T) {
	d := model.NewDate(2024, time.January, 1)
	txns := []model.Transaction{
		plain(model.TypeIncome, model.CategoryGift, "0.1", d),
		plain(model.TypeIncome, model.CategoryGift, "0.2", d),
		plain(model.TypeExpense, model.CategoryFood, "0.3", d),
	}

	s := Summarize(txns, "2024-01")
	assert.True(t, s.Income.Equal(dec("0.3")), "0.1 + 0.2 must be exactly 0.3")
	assert.True(t, s.Balance.IsZero())
	assert.True(t, s.Income.Sub(s.Expenses).Equal(s.Balance))
	assert.True(t, s.Positive(), "zero balance counts as positive")
}

func TestSummarize_Negative(t *testing.T) {
	d := model.NewDate(2024, time.February, 10)
	s := Summarize([]model.Transaction{plain(model.TypeExpense, model.CategoryRent, "10", d)}, "2024-02")
	assert.False(t, s.Positive())
	assert.True(t, s.Balance.Equal(dec("-10")))
}

func TestSummarize_EmptyMonth(t *testing.T) {
	s := Summarize(nil, "2030-01")
	assert.True(t, s.Income.IsZero())
	assert.True(t, s.Expenses.IsZero())
	assert.True(t, s.Balance.IsZero())
	assert.Zero(t, s.Count)
}

func TestPivot_WheatBySubcategoryAndUnit(t *testing.T) {
	txns := []model.Transaction{
		farm("wheat", model.UnitKg, "100", "5000", model.NewDate(2024, time.November, 1)),
		farm("wheat", model.UnitKg, "50", "2600", model.NewDate(2024, time.December, 2)),
	}

	groups := Pivot(txns, Dimensions{Subcategory: true, Unit: true})
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "wheat | kg", g.Label())
	assert.True(t, g.TotalQuantity.Equal(dec("150")))
	assert.True(t, g.TotalAmount.Equal(dec("7600")))
	assert.Equal(t, "50.67", g.AverageRate().StringFixed(2))
	assert.Equal(t, 2, g.Count())
}

func TestPivot_InsertionOrderAndPlaceholders(t *testing.T) {
	nov := model.NewDate(2024, time.November, 1)
	oct := model.NewDate(2024, time.October, 1)
	noUnit := farm("", "", "3", "30", oct)
	txns := []model.Transaction{
		farm("wheat", model.UnitQuintal, "2", "4000", nov),
		noUnit,
		farm("rice", model.UnitKg, "10", "400", nov),
		farm("wheat", model.UnitQuintal, "1", "2100", nov),
	}

	groups := Pivot(txns, AllDimensions)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"November 2024", "wheat", "quintal"}, groups[0].Key)
	assert.Equal(t, []string{"October 2024", NoSubcategory, NoUnit}, groups[1].Key)
	assert.Equal(t, []string{"November 2024", "rice", "kg"}, groups[2].Key)
	assert.True(t, groups[0].TotalAmount.Equal(dec("6100")))
}

func TestPivot_AmountConservation(t *testing.T) {
	txns := []model.Transaction{
		farm("wheat", model.UnitKg, "100", "5000.50", model.NewDate(2024, time.November, 1)),
		farm("rice", model.UnitKg, "20", "800.25", model.NewDate(2024, time.October, 1)),
		farm("milk", model.UnitLitre, "30", "1500", model.NewDate(2024, time.October, 9)),
	}
	total := dec("7300.75")

	for _, dims := range []Dimensions{AllDimensions, {Month: true}, {Unit: true}, {Subcategory: true}, {}} {
		sum := decimal.Zero
		for _, g := range Pivot(txns, dims) {
			sum = sum.Add(g.TotalAmount)
		}
		assert.True(t, sum.Equal(total), "dims %+v", dims)
	}
}

func TestPivot_NoDimensionsIsGrandTotal(t *testing.T) {
	txns := []model.Transaction{
		farm("wheat", model.UnitKg, "1", "10", model.NewDate(2024, time.November, 1)),
		farm("rice", model.UnitBag, "2", "20", model.NewDate(2024, time.May, 1)),
	}
	groups := Pivot(txns, Dimensions{})
	require.Len(t, groups, 1)
	assert.Empty(t, groups[0].Key)
	assert.Equal(t, "", groups[0].Label())
	assert.True(t, groups[0].TotalAmount.Equal(dec("30")))
}

func TestGroup_AverageRateZeroQuantity(t *testing.T) {
	g := Group{TotalQuantity: decimal.Zero, TotalAmount: dec("100")}
	assert.True(t, g.AverageRate().IsZero())
}

func TestDimensions_Names(t *testing.T) {
	assert.Equal(t, []string{"Month", "Subcategory", "Unit"}, AllDimensions.Names())
	assert.Equal(t, []string{"Unit"}, Dimensions{Unit: true}.Names())
	assert.Empty(t, Dimensions{}.Names())
}

func TestFarmingSummary_PreFilter(t *testing.T) {
	nov := model.NewDate(2024, time.November, 4)
	expenseFarm := farm("wheat", model.UnitKg, "10", "999", nov)
	expenseFarm.Type = model.TypeExpense
	noDetails := farm("wheat", model.UnitKg, "10", "888", nov)
	noDetails.FarmingDetails = nil

	txns := []model.Transaction{
		farm("wheat", model.UnitKg, "100", "5000", nov),
		expenseFarm,
		noDetails,
		plain(model.TypeIncome, model.CategorySalary, "50000", nov),
		farm("rice", model.UnitKg, "5", "200", model.NewDate(2024, time.October, 4)),
	}

	assert.Len(t, FarmingIncome(txns), 2)

	groups := FarmingSummary(txns, FarmingFilter{Month: "2024-11"}, Dimensions{Subcategory: true})
	require.Len(t, groups, 1)
	assert.True(t, groups[0].TotalAmount.Equal(dec("5000")))

	groups = FarmingSummary(txns, FarmingFilter{Subcategory: "rice"}, AllDimensions)
	require.Len(t, groups, 1)
	assert.Equal(t, "October 2024 | rice | kg", groups[0].Label())
}
