package domain

// Category is the closed set of expense/income transaction categories.
// The schema stores the string value; validation happens at the service
// boundary so an unknown value never reaches the database.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryTransport Category = "transport"
	CategoryHousing   Category = "housing"
	CategoryHealth    Category = "health"
	CategoryLeisure   Category = "leisure"
	CategoryEducation Category = "education"
	CategoryShopping  Category = "shopping"
	CategoryServices  Category = "services"
	CategoryTransfer  Category = "transfer"
	CategorySalary    Category = "salary"
	CategoryOther     Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryHousing, CategoryHealth,
		CategoryLeisure, CategoryEducation, CategoryShopping, CategoryServices,
		CategoryTransfer, CategorySalary, CategoryOther:
		return true
	}
	return false
}

// IncomeCategory classifies income sources.
type IncomeCategory string

const (
	IncomeCategorySalary     IncomeCategory = "salary"
	IncomeCategoryFreelance  IncomeCategory = "freelance"
	IncomeCategoryInvestment IncomeCategory = "investment"
	IncomeCategoryRental     IncomeCategory = "rental"
	IncomeCategoryOther      IncomeCategory = "other"
)

func (c IncomeCategory) IsValid() bool {
	switch c {
	case IncomeCategorySalary, IncomeCategoryFreelance, IncomeCategoryInvestment,
		IncomeCategoryRental, IncomeCategoryOther:
		return true
	}
	return false
}
