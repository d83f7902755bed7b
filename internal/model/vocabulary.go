package model

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

// Transaction types.
const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Known reports whether t is one of the defined transaction types.
func (t TransactionType) Known() bool {
	return t == TypeIncome || t == TypeExpense
}

// Label returns the capitalized type name.
func (t TransactionType) Label() string {
	return Capitalize(string(t))
}

// PaymentMode records how a transaction was paid.
type PaymentMode string

// Payment modes.
const (
	PaymentCash    PaymentMode = "cash"
	PaymentDigital PaymentMode = "digital"
)

// Known reports whether m is a defined payment mode.
func (m PaymentMode) Known() bool {
	return m == PaymentCash || m == PaymentDigital
}

// Label returns the capitalized payment mode. Records imported without a
// payment mode are shown as cash.
func (m PaymentMode) Label() string {
	if m == "" {
		return Capitalize(string(PaymentCash))
	}
	return Capitalize(string(m))
}

// Category is the closed set of transaction categories.
type Category string

// Income categories.
const (
	CategorySalary       Category = "salary"
	CategoryBusiness     Category = "business"
	CategoryFarming      Category = "farming"
	CategoryInvestment   Category = "investment"
	CategoryRentalIncome Category = "rental-income"
	CategoryGift         Category = "gift"
	CategoryOtherIncome  Category = "other-income"
)

// Expense categories. Farming is valid for both types.
const (
	CategoryFood          Category = "food"
	CategoryGroceries     Category = "groceries"
	CategoryRent          Category = "rent"
	CategoryUtilities     Category = "utilities"
	CategoryTransport     Category = "transport"
	CategoryHealthcare    Category = "healthcare"
	CategoryEducation     Category = "education"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryLoanEMI       Category = "loan-emi"
	CategoryOtherExpense  Category = "other-expense"
)

var (
	incomeCategories = []Category{
		CategorySalary, CategoryBusiness, CategoryFarming, CategoryInvestment,
		CategoryRentalIncome, CategoryGift, CategoryOtherIncome,
	}
	expenseCategories = []Category{
		CategoryFood, CategoryGroceries, CategoryRent, CategoryUtilities,
		CategoryTransport, CategoryHealthcare, CategoryEducation,
		CategoryEntertainment, CategoryShopping, CategoryFarming,
		CategoryLoanEMI, CategoryOtherExpense,
	}
)

// CategoriesFor returns the categories allowed for a transaction type.
func CategoriesFor(t TransactionType) []Category {
	switch t {
	case TypeIncome:
		return slices.Clone(incomeCategories)
	case TypeExpense:
		return slices.Clone(expenseCategories)
	default:
		return nil
	}
}

// Known reports whether c belongs to either category list.
func (c Category) Known() bool {
	return slices.Contains(incomeCategories, c) || slices.Contains(expenseCategories, c)
}

// ValidFor reports whether c may be used with transaction type t.
func (c Category) ValidFor(t TransactionType) bool {
	return slices.Contains(CategoriesFor(t), c)
}

// Label returns the display name, e.g. "Other Income".
func (c Category) Label() string {
	return FormatLabel(string(c))
}

// Unit is the measure a farming quantity is recorded in.
type Unit string

// Farming units.
const (
	UnitKg      Unit = "kg"
	UnitQuintal Unit = "quintal"
	UnitTon     Unit = "ton"
	UnitLitre   Unit = "litre"
	UnitDozen   Unit = "dozen"
	UnitPiece   Unit = "piece"
	UnitBag     Unit = "bag"
	UnitCrate   Unit = "crate"
)

var units = []Unit{UnitKg, UnitQuintal, UnitTon, UnitLitre, UnitDozen, UnitPiece, UnitBag, UnitCrate}

// Units returns every farming unit.
func Units() []Unit {
	return slices.Clone(units)
}

// Known reports whether u is a defined unit.
func (u Unit) Known() bool {
	return slices.Contains(units, u)
}

// SaleType describes the channel farm produce was sold through.
type SaleType string

// Sale types.
const (
	SaleWholesale  SaleType = "wholesale"
	SaleRetail     SaleType = "retail"
	SaleMandi      SaleType = "mandi"
	SaleDirectSale SaleType = "direct-sale"
	SaleContract   SaleType = "contract"
)

var saleTypes = []SaleType{SaleWholesale, SaleRetail, SaleMandi, SaleDirectSale, SaleContract}

// SaleTypes returns every sale type.
func SaleTypes() []SaleType {
	return slices.Clone(saleTypes)
}

// Known reports whether s is a defined sale type.
func (s SaleType) Known() bool {
	return slices.Contains(saleTypes, s)
}

// Label returns the display name, e.g. "Direct Sale".
func (s SaleType) Label() string {
	return FormatLabel(string(s))
}

// FormatLabel title-cases each dash separated word: "rental-income" becomes
// "Rental Income".
func FormatLabel(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Split(s, "-")
	for i, w := range words {
		words[i] = Capitalize(w)
	}
	return strings.Join(words, " ")
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
