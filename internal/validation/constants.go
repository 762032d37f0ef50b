package validation

const (
	// Age limits for account holders
	MinAge = 18
	MaxAge = 100

	// Declared annual income limits
	MinAnnualIncome = 1000
	MaxAnnualIncome = 10000000

	// String lengths
	MaxNotesLength   = 1000
	MaxAddressLength = 255
	MaxNameLength    = 100
)

var (
	EmploymentStatuses = []string{"employed", "self_employed", "unemployed", "retired", "student"}
	SourcesOfFunds     = []string{"salary", "business", "investments", "inheritance", "savings", "other"}
	ExperienceLevels   = []string{"beginner", "intermediate", "advanced", "expert"}
	RiskTolerances     = []string{"low", "medium", "high"}
	AccountPurposes    = []string{"investment", "savings", "trading", "hedging", "speculation", "other"}
)
